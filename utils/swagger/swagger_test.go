package swagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/swagger", Handler(SwaggerConfig{
		Title:         "B2BConnect API",
		SwaggerDocURL: "/api/v1/swagger/doc.json",
		AuthURL:       "/api/v1/auth",
	}))

	req := httptest.NewRequest(http.MethodGet, "/swagger", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "B2BConnect API")
	assert.Contains(t, body, "/api/v1/swagger/doc.json")
	assert.Contains(t, body, `window.AUTH_URL = "/api/v1/auth"`)
}
