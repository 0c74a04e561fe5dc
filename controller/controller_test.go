package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2bconnect-backend/models"
)

func serveSwaggerDoc(t *testing.T, docPath string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	cfg := &models.Config{AppName: "b2bconnect", AppVersion: "1.0.0"}
	router.GET("/swagger/doc.json", swaggerDocHandler(cfg, "/api/v1", docPath))

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSwaggerDocFallbackWithoutGeneratedDocs(t *testing.T) {
	recorder := serveSwaggerDoc(t, filepath.Join(t.TempDir(), "missing.json"))

	require.Equal(t, http.StatusOK, recorder.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/api/v1", doc["basePath"])
}

func TestSwaggerDocServesGeneratedFile(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "swagger.json")
	require.NoError(t, os.WriteFile(docPath, []byte(`{"swagger":"2.0","info":{"title":"generated"}}`), 0644))

	recorder := serveSwaggerDoc(t, docPath)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "generated")
}
