package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signTestToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// identityEcho records the identity the middleware resolved.
func identityEcho(got *Identity, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		*got = id
		*found = ok
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentify_BearerToken(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)

	var got Identity
	var found bool
	handler := Identify(verifier, zerolog.Nop())(identityEcho(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u1", "customer"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, "customer", got.Role)
	assert.False(t, got.Anonymous)
}

func TestIdentify_InvalidBearerToken(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)

	var got Identity
	var found bool
	handler := Identify(verifier, zerolog.Nop())(identityEcho(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, found)
}

func TestIdentify_SessionHeader(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)

	var got Identity
	var found bool
	handler := Identify(verifier, zerolog.Nop())(identityEcho(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(SessionHeader, "sess-42")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	assert.Equal(t, "sess-42", got.OwnerID)
	assert.True(t, got.Anonymous)
}

func TestIdentify_TokenWinsOverSession(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)

	var got Identity
	var found bool
	handler := Identify(verifier, zerolog.Nop())(identityEcho(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u1", "customer"))
	req.Header.Set(SessionHeader, "sess-42")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.True(t, found)
	assert.Equal(t, "u1", got.OwnerID)
	assert.False(t, got.Anonymous)
}

func TestIdentify_NoCredentials(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)

	var got Identity
	var found bool
	handler := Identify(verifier, zerolog.Nop())(identityEcho(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, found)
}

func TestRequireIdentity(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Identify(verifier, zerolog.Nop())(RequireIdentity(next))

	t.Run("session passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set(SessionHeader, "sess-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no identity rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAccount(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Identify(verifier, zerolog.Nop())(RequireAccount(next))

	t.Run("account passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u1", "customer"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous session rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
		req.Header.Set(SessionHeader, "sess-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Identify(verifier, zerolog.Nop())(RequireRole("admin")(next))

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/1/status", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u1", "admin"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("customer forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/1/status", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u1", "customer"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/1/status", nil)
		req.Header.Set(SessionHeader, "sess-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), SessionHeader)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, rec.Body.String())
}
