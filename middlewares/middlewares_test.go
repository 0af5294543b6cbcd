package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[string]models.User

func (f fakeUsers) Get(id string) (models.User, error) {
	user, ok := f[id]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return user, nil
}

func testUsers() fakeUsers {
	return fakeUsers{
		"user-1":       {ID: "user-1", Role: models.RoleStudent},
		"user-2":       {ID: "user-2", Role: models.RoleStudent},
		"user-student": {ID: "user-student", Role: models.RoleStudent},
		"user-staff":   {ID: "user-staff", Role: models.RoleStaff},
		"user-admin":   {ID: "user-admin", Role: models.RoleAdmin},
	}
}

func newAuthRouter(users UserLookup) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(users), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserID))
	})
	r.GET("/admin", AuthMiddleware(users), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter(testUsers())
	token, err := utils.GenerateToken("user-1", "student")
	require.NoError(t, err)

	tests := []struct {
		name   string
		url    string
		header string
		want   int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer abc", http.StatusUnauthorized},
		{"bearer header", "/me", "Bearer " + token, http.StatusOK},
		{"query token", "/me?token=" + token, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRejectsBlacklistedToken(t *testing.T) {
	r := newAuthRouter(testUsers())
	token, err := utils.GenerateToken("user-2", "student")
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	r := newAuthRouter(testUsers())
	for role, want := range map[string]int{
		"student": http.StatusForbidden,
		"staff":   http.StatusForbidden,
		"admin":   http.StatusOK,
	} {
		token, err := utils.GenerateToken("user-"+role, role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestAuthMiddlewareRejectsDeletedAccount(t *testing.T) {
	users := testUsers()
	r := newAuthRouter(users)
	token, err := utils.GenerateToken("user-admin", models.RoleAdmin)
	require.NoError(t, err)

	get := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, get("/admin"))
	delete(users, "user-admin")
	assert.Equal(t, http.StatusUnauthorized, get("/me"))
	assert.Equal(t, http.StatusUnauthorized, get("/admin"))
}

func TestAdminOnlyUsesStoredRole(t *testing.T) {
	users := testUsers()
	r := newAuthRouter(users)
	token, err := utils.GenerateToken("user-admin", models.RoleAdmin)
	require.NoError(t, err)

	demoted := users["user-admin"]
	demoted.Role = models.RoleStaff
	users["user-admin"] = demoted

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	start := time.Date(2024, 10, 28, 8, 0, 0, 0, time.UTC)

	assert.True(t, rl.allow("1.1.1.1", start))
	assert.True(t, rl.allow("1.1.1.1", start.Add(time.Second)))
	assert.False(t, rl.allow("1.1.1.1", start.Add(2*time.Second)))
	assert.True(t, rl.allow("2.2.2.2", start.Add(2*time.Second)))
	assert.True(t, rl.allow("1.1.1.1", start.Add(61*time.Second)))
}

func TestRateLimiterForgetsIdleIPs(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	start := time.Date(2024, 10, 28, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		rl.allow(fmt.Sprintf("10.0.0.%d", i), start)
	}
	assert.Len(t, rl.ips, 50)

	assert.True(t, rl.allow("10.0.1.1", start.Add(30*time.Second)))
	assert.Len(t, rl.ips, 51)

	assert.True(t, rl.allow("10.0.1.2", start.Add(61*time.Second)))
	assert.Len(t, rl.ips, 2)
	assert.Contains(t, rl.ips, "10.0.1.1")
	assert.Contains(t, rl.ips, "10.0.1.2")
}

func TestLoginLimiterForgetsIdleIPs(t *testing.T) {
	l := newLoginLimiter()
	start := time.Date(2024, 10, 28, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		assert.True(t, l.allow("1.1.1.1", start))
	}
	assert.False(t, l.allow("1.1.1.1", start))
	assert.True(t, l.allow("2.2.2.2", start.Add(30*time.Second)))
	assert.Len(t, l.limiters, 2)

	// 1.1.1.1 has been quiet for a full minute and its bucket is full again
	assert.True(t, l.allow("3.3.3.3", start.Add(time.Minute)))
	assert.Len(t, l.limiters, 2)
	assert.NotContains(t, l.limiters, "1.1.1.1")

	for i := 0; i < 5; i++ {
		assert.True(t, l.allow("1.1.1.1", start.Add(time.Minute)))
	}
	assert.False(t, l.allow("1.1.1.1", start.Add(time.Minute)))
}

func TestStrictRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewStrictRateLimiter(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 200, 200, 429}, codes)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddlewares("http://localhost:5173"))
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
