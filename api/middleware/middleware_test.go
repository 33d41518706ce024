package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
	"startuphub/services"
	"startuphub/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type body struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    []string `json:"data"`
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, body) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var b body
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	}
	return w, b
}

func TestZLogMapsKnownErrors(t *testing.T) {
	r := gin.New()
	r.Use(ZLogMiddleware())
	r.GET("/missing", func(c *gin.Context) { c.Error(errs.ErrCallNotFound) })
	r.GET("/wrapped", func(c *gin.Context) { c.Error(errors.Join(errs.ErrOverAllocated, errors.New("sum"))) })
	r.GET("/boom", func(c *gin.Context) { c.Error(errors.New("disk on fire")) })

	w, b := serve(t, r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", b.Status)
	assert.Equal(t, errs.ErrCallNotFound.Error(), b.Message)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/wrapped", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	w, b = serve(t, r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errs.ErrInternal.Error(), b.Message)
}

func TestZLogKeepsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(ZLogMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestZLogBindErrorsListFields(t *testing.T) {
	r := gin.New()
	r.Use(ZLogMiddleware())
	r.POST("/events", func(c *gin.Context) {
		var req types.EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(err).SetType(gin.ErrorTypeBind)
		}
	})

	payload := `{"title":"Demo","start_date":"2026-05-02T10:00:00Z","end_date":"2026-05-01T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w, b := serve(t, r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"EndDate: failed gtfield=StartDate"}, b.Data)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.Use(ZLogMiddleware())
	as := func(role models.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				SetUser(c, &services.CachedUser{ID: 1, Role: role})
			}
		}
	}
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/admin", as(models.RoleAdmin), RequireRole(models.RoleAdmin), handler)
	r.GET("/sponsor", as(models.RoleSponsor), RequireRole(models.RoleAdmin), handler)
	r.GET("/anon", as(""), RequireRole(models.RoleAdmin), handler)

	w, _ := serve(t, r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/sponsor", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth(t *testing.T) {
	db := testutil.SetupDB(t)
	user := testutil.CreateUser(t, db, "founder@example.com", models.RoleEntrepreneur)
	tokens := services.NewTokenIssuer("secret", time.Hour)
	token, _, err := tokens.Issue(&user)
	require.NoError(t, err)

	r := gin.New()
	r.Use(ZLogMiddleware())
	r.GET("/me", Auth(tokens, services.NewUserCache(nil, time.Minute)), func(c *gin.Context) {
		c.JSON(http.StatusOK, types.Response{Status: "success", Message: CurrentUser(c).Email})
	})

	w, _ := serve(t, r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, b := serve(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "founder@example.com", b.Message)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w, _ = serve(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	w, _ = serve(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a stale cookie left from an earlier session must not shadow the header
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "expired"})
	req.Header.Set("Authorization", "Bearer "+token)
	w, b = serve(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "founder@example.com", b.Message)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	w, _ = serve(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Now()

	assert.True(t, rl.allow("1.2.3.4", now))
	assert.True(t, rl.allow("1.2.3.4", now))
	assert.False(t, rl.allow("1.2.3.4", now))
	assert.True(t, rl.allow("5.6.7.8", now))
	assert.True(t, rl.allow("1.2.3.4", now.Add(time.Second)))

	rl.allow("9.9.9.9", now.Add(time.Hour))
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimiterHandler(t *testing.T) {
	r := gin.New()
	r.Use(ZLogMiddleware())
	r.POST("/auth/login", NewRateLimiter(0.001, 1).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w, _ := serve(t, r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w, b := serve(t, r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, errs.ErrTooManyRequests.Error(), b.Message)
}
