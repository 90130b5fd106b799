package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRecoveryMiddleware_PanicRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorRecoveryMiddleware(nil))
	router.GET("/panic", func(_ *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(contextutils.ErrorCodeInternalError), body["code"])
	assert.Equal(t, "fatal", body["severity"])
}

func TestErrorRecoveryMiddleware_NormalRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorRecoveryMiddleware(nil))
	router.GET("/normal", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req, _ := http.NewRequest("GET", "/normal", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code contextutils.ErrorCode
		want int
	}{
		{contextutils.ErrorCodeInvalidInput, http.StatusBadRequest},
		{contextutils.ErrorCodeValidationFailed, http.StatusBadRequest},
		{contextutils.ErrorCodeTabNotFound, http.StatusNotFound},
		{contextutils.ErrorCodeRecordNotFound, http.StatusNotFound},
		{contextutils.ErrorCodeRateLimit, http.StatusTooManyRequests},
		{contextutils.ErrorCodeServiceUnavailable, http.StatusServiceUnavailable},
		{contextutils.ErrorCodeSpeechUnavailable, http.StatusServiceUnavailable},
		{contextutils.ErrorCodeContentUnavailable, http.StatusServiceUnavailable},
		{contextutils.ErrorCodeTimeout, http.StatusRequestTimeout},
		{contextutils.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestHandleAppError_Wrapped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/wrapped", func(c *gin.Context) {
		HandleAppError(c, contextutils.WrapError(contextutils.ErrTabNotFound, "unknown tab"))
	})
	router.GET("/plain", func(c *gin.Context) {
		HandleAppError(c, errors.New("boom"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/wrapped", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "boom")
}
