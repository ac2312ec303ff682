package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/testutil"
	"github.com/oksasatya/taskboard/pkg/helpers"
	"github.com/oksasatya/taskboard/pkg/metrics"
)

type gateFixture struct {
	engine  *gin.Engine
	gate    *AuthGate
	store   *testutil.Store
	revoker *testutil.Revoker
	user    *entity.User
	admin   *entity.User
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	store := testutil.NewStore()
	ctx := context.Background()
	user := &entity.User{Name: "Ann", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, store.Users().Create(ctx, user))
	admin := &entity.User{Name: "Root", Email: "root@x.com", PasswordHash: "h", Role: entity.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, admin))

	f := &gateFixture{store: store, revoker: testutil.NewRevoker(), user: user, admin: admin}
	f.gate = NewAuthGate(helpers.NewJWTManager("gate-secret", time.Hour), store.Users(), testutil.Logger())
	f.gate.Revoked = f.revoker
	f.gate.Metrics = metrics.New(prometheus.NewRegistry())

	r := newEngine()
	protected := r.Group("/", f.gate.Protect())
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": Caller(c).ID})
	})
	protected.GET("/admin", RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	f.engine = r
	return f
}

func (f *gateFixture) token(t *testing.T, userID string) string {
	t.Helper()
	tok, _, err := f.gate.Tokens.Issue(userID)
	require.NoError(t, err)
	return tok
}

func (f *gateFixture) do(path string, mutate func(r *http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func bearer(tok string) func(r *http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func cookie(tok string) func(r *http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: helpers.TokenCookieName, Value: tok}) }
}

func TestProtect_Rejections(t *testing.T) {
	f := newGateFixture(t)

	expired, _, err := f.gate.Tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue(f.user.ID)
	require.NoError(t, err)
	foreign, _, err := helpers.NewJWTManager("other-secret", time.Hour).Issue(f.user.ID)
	require.NoError(t, err)

	revoked := f.token(t, f.admin.ID)
	claims, err := f.gate.Tokens.Verify(revoked)
	require.NoError(t, err)
	require.NoError(t, f.revoker.Revoke(context.Background(), claims.ID, f.admin.ID, claims.ExpiresAt.Time))

	tests := []struct {
		name    string
		mutate  func(r *http.Request)
		message string
	}{
		{name: "no credential", mutate: nil, message: MsgNoToken},
		{name: "empty bearer", mutate: func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }, message: MsgNoToken},
		{name: "basic scheme", mutate: func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, message: MsgNoToken},
		{name: "garbage", mutate: bearer("not.a.jwt"), message: MsgInvalidToken},
		{name: "wrong secret", mutate: bearer(foreign), message: MsgInvalidToken},
		{name: "expired", mutate: bearer(expired), message: MsgExpiredToken},
		{name: "revoked", mutate: bearer(revoked), message: MsgRevokedToken},
		{name: "unknown subject", mutate: bearer(f.token(t, "00000000-0000-0000-0000-000000000000")), message: MsgUserGone},
		{name: "malformed subject", mutate: bearer(f.token(t, "not-a-uuid")), message: MsgUserGone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do("/me", tt.mutate)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.NotEmpty(t, env.RequestID)
		})
	}
	assert.Equal(t, 1.0, promtest.ToFloat64(f.gate.Metrics.AuthRejectedTotal.WithLabelValues("expired")))
}

func TestProtect_ResolvesCaller(t *testing.T) {
	f := newGateFixture(t)
	tok := f.token(t, f.user.ID)

	for name, mutate := range map[string]func(*http.Request){
		"bearer header": bearer(tok),
		"cookie":        cookie(tok),
		"cookie wins over bad header": func(r *http.Request) {
			cookie(tok)(r)
			bearer("garbage")(r)
		},
	} {
		t.Run(name, func(t *testing.T) {
			w := f.do("/me", mutate)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, `{"id":"`+f.user.ID+`"}`, w.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	f := newGateFixture(t)

	w := f.do("/admin", bearer(f.token(t, f.user.ID)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, MsgForbiddenRoles, decode(t, w).Message)

	w = f.do("/admin", bearer(f.token(t, f.admin.ID)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WithoutGate(t *testing.T) {
	r := newEngine()
	r.GET("/admin", RequireRole(entity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
