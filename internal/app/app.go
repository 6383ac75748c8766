// Package app provides application-level wiring and dependency injection for
// the tenant core following hexagonal architecture.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"tenantcore/internal/api"
	"tenantcore/internal/cache"
	"tenantcore/internal/config"
	"tenantcore/internal/db/repository"
	"tenantcore/internal/middleware"
	"tenantcore/internal/service"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App holds the fully-wired application. Handler is nil when built with
// NewServices.
type App struct {
	Services api.Services
	Handler  http.Handler

	identity    *service.IdentityService
	redisClient *redis.Client // nil when caching is disabled
}

// New wires the full application: services plus the authenticated HTTP
// surface.
func New(ctx context.Context, deps Deps) (*App, error) {
	a, err := NewServices(ctx, deps)
	if err != nil {
		return nil, err
	}

	validator, err := buildValidator(ctx, deps.Cfg)
	if err != nil {
		return nil, err
	}
	auth := middleware.Authenticator(validator, a.identity)

	handlers := api.NewHandlers(deps.Logger.With("component", "api"), a.Services)
	a.Handler = api.NewRouter(handlers, auth, api.RouterConfig{
		CORSAllowedOrigins: deps.Cfg.CORSAllowedOrigins,
		RateLimit: &middleware.RateLimitConfig{
			RequestsPerSecond: deps.Cfg.RateLimitRPS,
			Burst:             deps.Cfg.RateLimitBurst,
		},
	})
	return a, nil
}

// NewServices wires repositories and services without the HTTP layer. The
// admin CLI uses this to operate on the store directly, so it needs no
// authentication configuration.
func NewServices(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Repositories ===
	// Write-pool repos serve the services that insert or update; the
	// read-only paths (config resolution, audit queries) ride the
	// concurrent read pool.
	principalRepo := repository.NewPrincipalRepo(deps.WriteDB)
	linkRepo := repository.NewIdentityLinkRepo(deps.WriteDB)
	membershipRepo := repository.NewMembershipRepo(deps.WriteDB)
	orgRepo := repository.NewOrganizationRepo(deps.WriteDB)
	workspaceRepo := repository.NewWorkspaceRepo(deps.WriteDB)
	resourceRepo := repository.NewResourceRepo(deps.WriteDB)
	grantRepo := repository.NewShareGrantRepo(deps.WriteDB)
	registryRepo := repository.NewModuleRegistryRepo(deps.WriteDB)
	sessionRepo := repository.NewSessionScopeRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	registryReadRepo := repository.NewModuleRegistryRepo(deps.ReadDB)
	auditReadRepo := repository.NewAuditRepo(deps.ReadDB)

	// === Optional resolved-config cache ===
	var (
		configCache service.ConfigCache
		redisClient *redis.Client
	)
	if cfg.CacheEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			deps.Logger.Warn("redis unreachable, config cache disabled", "addr", cfg.RedisAddr, "error", err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			configCache = cache.NewRedisConfigCache(redisClient, cfg.CacheTTL)
		}
	}

	// === Services ===
	identitySvc := service.NewIdentityService(linkRepo, principalRepo)
	svcs := api.Services{
		Scope: service.NewScopeService(membershipRepo, orgRepo, sessionRepo),
		Authz: service.NewAuthorizationService(principalRepo, membershipRepo, auditRepo,
			deps.Logger.With("component", "authz")),
		Access: service.NewResourceAccessService(resourceRepo, grantRepo, membershipRepo, principalRepo, auditRepo,
			deps.Logger.With("component", "access")),
		Config: service.NewModuleConfigService(registryReadRepo, configCache,
			deps.Logger.With("component", "modconfig")),
		ModuleAdmin: service.NewModuleAdminService(registryRepo, workspaceRepo, orgRepo, configCache,
			deps.Logger.With("component", "modadmin")),
		Principals: service.NewPrincipalService(principalRepo, linkRepo),
		ScopeAdmin: service.NewScopeAdminService(orgRepo, workspaceRepo),
		Members:    service.NewMembershipService(membershipRepo, principalRepo, orgRepo, workspaceRepo),
		Sharing: service.NewSharingService(resourceRepo, grantRepo, principalRepo, membershipRepo, auditRepo,
			deps.Logger.With("component", "sharing")),
		Sessions: service.NewSessionService(sessionRepo, orgRepo, membershipRepo),
		Audit:    service.NewAuditService(auditReadRepo),
	}

	return &App{Services: svcs, identity: identitySvc, redisClient: redisClient}, nil
}

// Close releases resources held by the app (the Redis client, when open).
func (a *App) Close() error {
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}

// buildValidator picks the token validator from config: OIDC discovery when
// an issuer is set, raw JWKS when only a JWKS URL is given, HS256 otherwise.
func buildValidator(ctx context.Context, cfg *config.Config) (middleware.TokenValidator, error) {
	switch {
	case cfg.Auth.IssuerURL != "":
		return middleware.NewOIDCValidator(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience, cfg.Auth.AllowedIssuers)
	case cfg.Auth.JWKSURL != "":
		return middleware.NewOIDCValidatorFromJWKS(ctx, cfg.Auth.JWKSURL, cfg.Auth.IssuerURL, cfg.Auth.Audience, cfg.Auth.AllowedIssuers)
	case cfg.Auth.JWTSecret != "":
		return middleware.NewHS256Validator(cfg.Auth.JWTSecret)
	default:
		return nil, fmt.Errorf("no authentication method configured")
	}
}
