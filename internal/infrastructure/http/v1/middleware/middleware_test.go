package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warestock/internal/core/apperror"
	"warestock/internal/core/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- ErrorHandler ---

func TestErrorHandler_RendersAppError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(apperror.NewValidation("bad input").WithDetail("field", "lot"))
		c.Abort()
	})

	w := perform(router, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperror.CodeValidation, body["code"])
	assert.Equal(t, "bad input", body["message"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "lot", details["field"])
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: secret table details"))
		c.Abort()
	})

	w := perform(router, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "secret table")
}

func TestErrorHandler_DoesNotOverrideWrittenResponse(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		_ = c.Error(errors.New("late error"))
	})

	w := perform(router, http.MethodGet, "/ok", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

// --- Auth ---

type staticValidator struct {
	actor *security.Actor
	err   error
}

func (v *staticValidator) ValidateToken(string) (*security.Actor, error) {
	return v.actor, v.err
}

func authRouter(validator JWTValidator) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler())
	protected := router.Group("/", Auth(validator))
	protected.GET("/me", func(c *gin.Context) {
		actor, _ := security.GetActor(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"name": actor.Name})
	})
	admin := protected.Group("/", RequireAdmin())
	admin.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAuth_MissingHeader(t *testing.T) {
	router := authRouter(&staticValidator{})

	w := perform(router, http.MethodGet, "/me", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	router := authRouter(&staticValidator{})

	w := perform(router, http.MethodGet, "/me", map[string]string{
		"Authorization": "Basic abc123",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	router := authRouter(&staticValidator{err: errors.New("expired")})

	w := perform(router, http.MethodGet, "/me", map[string]string{
		"Authorization": "Bearer bad-token",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ActorReachesHandler(t *testing.T) {
	router := authRouter(&staticValidator{
		actor: &security.Actor{Name: "Ana", Role: security.RoleUser},
	})

	w := perform(router, http.MethodGet, "/me", map[string]string{
		"Authorization": "Bearer good-token",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana", decodeBody(t, w)["name"])
}

func TestRequireAdmin_RejectsRegularUser(t *testing.T) {
	router := authRouter(&staticValidator{
		actor: &security.Actor{Name: "Ana", Role: security.RoleUser},
	})

	w := perform(router, http.MethodGet, "/admin", map[string]string{
		"Authorization": "Bearer good-token",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	router := authRouter(&staticValidator{
		actor: &security.Actor{Name: "Root", Role: security.RoleAdmin},
	})

	w := perform(router, http.MethodGet, "/admin", map[string]string{
		"Authorization": "Bearer good-token",
	})

	assert.Equal(t, http.StatusOK, w.Code)
}
