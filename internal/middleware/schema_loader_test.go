package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchemas(t *testing.T) {
	sl, err := LoadSchemas()
	require.NoError(t, err)

	ep, ok := sl.Endpoint(http.MethodPut, "/v1/preferences")
	require.True(t, ok)
	assert.Equal(t, "Preferences", ep.RequestSchema)

	ep, ok = sl.Endpoint(http.MethodGet, "/v1/tabs/:tab/html")
	require.True(t, ok)
	assert.Empty(t, ep.RequestSchema)

	assert.False(t, sl.IsEndpointDocumented(http.MethodDelete, "/v1/preferences"))
	assert.NotEmpty(t, sl.Endpoints())
}

func TestParseSchemas_UnknownRef(t *testing.T) {
	doc := `
paths:
  /x:
    post:
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Missing"
components:
  schemas: {}
`
	_, err := ParseSchemas([]byte(doc))
	assert.True(t, errors.Is(err, contextutils.ErrInvalidInput))
}

func TestValidateJSON(t *testing.T) {
	sl, err := LoadSchemas()
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    string
		wantErr *contextutils.AppError
	}{
		{"valid", `{"theme":"dark","showTranslations":false}`, nil},
		{"bad theme", `{"theme":"sepia","showTranslations":true}`, contextutils.ErrValidationFailed},
		{"missing field", `{"theme":"dark"}`, contextutils.ErrValidationFailed},
		{"extra field", `{"theme":"dark","showTranslations":true,"x":1}`, contextutils.ErrValidationFailed},
		{"not json", `{`, contextutils.ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sl.ValidateJSON([]byte(tt.body), "Preferences")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	assert.True(t, errors.Is(sl.ValidateJSON([]byte(`{}`), "Nope"), contextutils.ErrRecordNotFound))
}

func TestRequestValidationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sl, err := LoadSchemas()
	require.NoError(t, err)

	router := gin.New()
	v1 := router.Group("/v1", RequestValidationMiddleware(sl, nil))
	var seen string
	v1.PUT("/preferences", func(c *gin.Context) {
		b, _ := c.GetRawData()
		seen = string(b)
		c.Status(http.StatusNoContent)
	})
	v1.GET("/undocumented", func(c *gin.Context) { c.Status(http.StatusOK) })

	body := `{"theme":"dark","showTranslations":true}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/preferences", strings.NewReader(body)))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, body, seen)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/preferences", strings.NewReader(`{"theme":1}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(contextutils.ErrorCodeValidationFailed))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/undocumented", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
