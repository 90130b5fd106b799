package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	contextutils "studyapp/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	router.Use(RequireSession(nil))
	router.GET("/owner", func(c *gin.Context) {
		assert.Equal(t, OwnerID(c), contextutils.GetOwnerIDFromContext(c.Request.Context()))
		c.String(http.StatusOK, OwnerID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/owner", nil))
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	assert.True(t, contextutils.IsValidUUID(first))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The cookie keeps the same owner.
	req := httptest.NewRequest(http.MethodGet, "/owner", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())

	// Without the cookie a new owner is issued.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/owner", nil))
	assert.NotEqual(t, first, w.Body.String())
}
