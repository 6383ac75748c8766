package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "tenantcore/internal/db"
	"tenantcore/internal/db/repository"
	"tenantcore/internal/domain"
	"tenantcore/internal/service"
)

const testSecret = "auth-test-secret-32-bytes-xxxxx"

func setupAuth(t *testing.T) (func(http.Handler) http.Handler, *repository.PrincipalRepo, *repository.IdentityLinkRepo) {
	t.Helper()

	db, _ := internaldb.OpenTestSQLite(t)
	principals := repository.NewPrincipalRepo(db)
	links := repository.NewIdentityLinkRepo(db)
	identity := service.NewIdentityService(links, principals)

	validator, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	return Authenticator(validator, identity), principals, links
}

func echoPrincipal(t *testing.T, captured *domain.ContextPrincipal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFromContext(r.Context())
		require.True(t, ok)
		*captured = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator_LinkedIdentityPasses(t *testing.T) {
	mw, principals, links := setupAuth(t)
	ctx := context.Background()

	p, err := principals.Create(ctx, &domain.Principal{Name: "alice", SystemRole: domain.RoleAdmin, Active: true})
	require.NoError(t, err)
	_, err = links.Link(ctx, &domain.IdentityLink{
		PrincipalID: p.ID, Issuer: "https://idp.example.com", Subject: "sub-alice",
	})
	require.NoError(t, err)

	var got domain.ContextPrincipal
	srv := mw(echoPrincipal(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(testSecret, jwt.MapClaims{
		"sub": "sub-alice",
		"iss": "https://idp.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, domain.RoleAdmin, got.SystemRole)
}

func TestAuthenticator_UnknownIdentityRejected(t *testing.T) {
	mw, _, _ := setupAuth(t)

	srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(testSecret, jwt.MapClaims{
		"sub": "stranger",
		"iss": "https://idp.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// The 401 body must not distinguish a bad signature from an unmapped subject.
func TestAuthenticator_UniformUnauthorizedBody(t *testing.T) {
	mw, _, _ := setupAuth(t)

	srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	badToken := httptest.NewRequest(http.MethodGet, "/", nil)
	badToken.Header.Set("Authorization", "Bearer garbage")

	unmapped := httptest.NewRequest(http.MethodGet, "/", nil)
	unmapped.Header.Set("Authorization", "Bearer "+makeToken(testSecret, jwt.MapClaims{
		"sub": "stranger",
		"iss": "https://idp.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))

	recA := httptest.NewRecorder()
	srv.ServeHTTP(recA, badToken)
	recB := httptest.NewRecorder()
	srv.ServeHTTP(recB, unmapped)

	assert.Equal(t, http.StatusUnauthorized, recA.Code)
	assert.Equal(t, http.StatusUnauthorized, recB.Code)
	assert.JSONEq(t, recA.Body.String(), recB.Body.String())
}

func TestAuthenticator_MissingHeaderRejected(t *testing.T) {
	mw, _, _ := setupAuth(t)

	srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
