package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	tok, err := issuer.GenerateToken(Identity{UserID: "u-1", Email: "a@example.com", FirstName: "Ada"})
	require.NoError(t, err)

	claims, err := issuer.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), issuer.Remaining(claims).Seconds(), 5)
}

func TestIssuer_Rejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	tok, err := issuer.GenerateToken(Identity{UserID: "u-1"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).ParseToken(tok)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewIssuer("secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.ParseToken(tok)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ParseToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: 4}
	digest, err := h.Hash("hunter2")
	require.NoError(t, err)

	assert.True(t, h.Compare("hunter2", digest))
	assert.False(t, h.Compare("hunter3", digest))
	assert.False(t, h.Compare("hunter2", "not-a-hash"))
}

func TestRedisRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	r := NewRedisRevoker(rdb)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRequireAuth(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	tok, err := issuer.GenerateToken(Identity{UserID: "u-7"})
	require.NoError(t, err)
	claims, err := issuer.ParseToken(tok)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb, err := ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()
	revoker := NewRedisRevoker(rdb)

	r := gin.New()
	r.GET("/me", RequireAuth(issuer, revoker, nil), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set(HeaderName, header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-7", w.Body.String())

	w = do("Bearer " + tok)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer nope").Code)

	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, do(tok).Code)
}

type accountSet map[string]bool

func (a accountSet) Exists(_ context.Context, id string) (bool, error) {
	return a[id], nil
}

func TestRequireAuth_MissingAccount(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	accounts := accountSet{"u-1": true}

	r := gin.New()
	r.GET("/me", RequireAuth(issuer, NoopRevoker{}, accounts), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	do := func(userID string) int {
		tok, err := issuer.GenerateToken(Identity{UserID: userID})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(HeaderName, tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("u-1"))
	assert.Equal(t, http.StatusUnauthorized, do("u-2"))

	delete(accounts, "u-1")
	assert.Equal(t, http.StatusUnauthorized, do("u-1"))
}
