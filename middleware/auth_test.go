package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerly/pos-backend/middleware"
	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/notifications"
	"github.com/grocerly/pos-backend/services"
)

var testSecret = []byte("test-secret")

type fakeStore struct {
	revoked map[string]bool
}

func (f *fakeStore) RecordLoginFailure(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeStore) ClearLoginFailures(context.Context, string) error          { return nil }

func (f *fakeStore) RevokeSession(_ context.Context, tokenID string, _ time.Time) error {
	if f.revoked == nil {
		f.revoked = make(map[string]bool)
	}
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeStore) SessionRevoked(_ context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], nil
}

func newRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := services.NewAuthService(nil, store, notifications.New(nil), nil, testSecret)

	r := gin.New()
	protected := r.Group("", middleware.RequireAuth(auth, testSecret))
	protected.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(middleware.CtxRole)})
	})
	protected.GET("/admin", middleware.RequireRole(models.RoleSuperadmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r := newRouter(&fakeStore{})
	w := doGet(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	r := newRouter(&fakeStore{})
	w := doGet(r, "/whoami", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r := newRouter(&fakeStore{})
	token, err := services.GenerateJWT("u1", "alice", models.RoleCashier, testSecret)
	require.NoError(t, err)

	w := doGet(r, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.RoleCashier)
}

func TestRequireAuthRejectsRevokedSession(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(store)

	token, err := services.GenerateJWT("u1", "alice", models.RoleCashier, testSecret)
	require.NoError(t, err)
	claims, err := services.ParseJWT(token, testSecret)
	require.NoError(t, err)
	require.NoError(t, store.RevokeSession(context.Background(), claims.TokenID, claims.Expiry))

	w := doGet(r, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleGatesByRole(t *testing.T) {
	r := newRouter(&fakeStore{})

	cashier, err := services.GenerateJWT("u1", "alice", models.RoleCashier, testSecret)
	require.NoError(t, err)
	admin, err := services.GenerateJWT("u2", "boss", models.RoleSuperadmin, testSecret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", cashier).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin", admin).Code)
}
