package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientreg/internal/api/dto"
	"github.com/martijn/clientreg/internal/api/middleware"
	"github.com/martijn/clientreg/internal/core/service"
	"github.com/martijn/clientreg/internal/core/validation"
	"github.com/martijn/clientreg/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/require"
)

// testEnv holds all test dependencies
type testEnv struct {
	db     *sqlite.DB
	router *gin.Engine
}

// setupTestEnv creates a test environment with an in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { db.Close() })

	clientService := service.NewClientService(
		sqlite.NewClientRepository(db),
		validation.New(validation.Options{Strictness: validation.StrictnessBasic}),
	)
	clientHandler := NewClientHandler(clientService)
	healthHandler := NewHealthHandler(clientService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware())

	router.GET("/clientes", clientHandler.ListClients)
	router.POST("/clientes", clientHandler.CreateClient)
	router.GET("/clientes/:id", clientHandler.GetClient)
	router.PUT("/clientes/:id", clientHandler.UpdateClient)
	router.DELETE("/clientes/:id", clientHandler.DeleteClient)
	router.GET("/health", healthHandler.Health)

	return &testEnv{db: db, router: router}
}

// request performs a request with an optional JSON body
func (env *testEnv) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// createClient creates a client through the API and returns it
func (env *testEnv) createClient(t *testing.T, body map[string]any) dto.ClientResponse {
	t.Helper()

	w := env.request(t, http.MethodPost, "/clientes", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return parseClient(t, w)
}

func parseClient(t *testing.T, w *httptest.ResponseRecorder) dto.ClientResponse {
	t.Helper()

	var resp dto.ClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func parseClientList(t *testing.T, w *httptest.ResponseRecorder) []dto.ClientResponse {
	t.Helper()

	var resp []dto.ClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}
