package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/martijn/clientreg/internal/api/dto"
	"github.com/martijn/clientreg/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateThenGetReturnsCanonicalClient(t *testing.T) {
	env := setupTestEnv(t)

	created := env.createClient(t, map[string]any{"Nome": "Ana Silva", "Idade": 30, "UF": "sp"})
	assert.Equal(t, dto.ClientResponse{ID: 1, Name: "Ana Silva", Age: 30, StateCode: "SP"}, created)

	w := env.request(t, http.MethodGet, "/clientes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, parseClient(t, w))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestCreateClientValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		wantError   string
		wantDetails map[string]string
	}{
		{
			name:      "missing every field",
			body:      map[string]any{},
			wantError: "validation failed",
			wantDetails: map[string]string{
				"name":       "is required",
				"age":        "is required",
				"state_code": "is required",
			},
		},
		{
			name:        "missing state code",
			body:        map[string]any{"Nome": "Ana", "Idade": 30},
			wantError:   "validation failed",
			wantDetails: map[string]string{"state_code": "is required"},
		},
		{
			name:        "zero age",
			body:        map[string]any{"Nome": "Ana", "Idade": 0, "UF": "SP"},
			wantError:   "validation failed",
			wantDetails: map[string]string{"age": "must be greater than zero"},
		},
		{
			name:        "fractional age",
			body:        `{"Nome":"Ana","Idade":30.5,"UF":"SP"}`,
			wantError:   "validation failed",
			wantDetails: map[string]string{"age": "must be a whole number"},
		},
		{
			name:        "non numeric age",
			body:        map[string]any{"Nome": "Ana", "Idade": "abc", "UF": "SP"},
			wantError:   "validation failed",
			wantDetails: map[string]string{"age": "must be a number"},
		},
		{
			name:        "three letter state",
			body:        map[string]any{"Nome": "Ana", "Idade": 30, "UF": "SPO"},
			wantError:   "validation failed",
			wantDetails: map[string]string{"state_code": "must be exactly two letters"},
		},
		{
			name:        "empty body",
			body:        "",
			wantError:   "validation failed",
			wantDetails: map[string]string{"name": "is required", "age": "is required", "state_code": "is required"},
		},
		{name: "malformed json", body: `{"Nome":`, wantError: "invalid request body"},
		{name: "json array", body: `[{"Nome":"Ana"}]`, wantError: "invalid request body"},
		{name: "trailing data", body: `{"Nome":"Ana"} {}`, wantError: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)

			w := env.request(t, http.MethodPost, "/clientes", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			resp := parseErrorResponse(t, w)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, tt.wantDetails, resp.Details)

			list := env.request(t, http.MethodGet, "/clientes", nil)
			assert.Empty(t, parseClientList(t, list), "rejected payload must not be stored")
		})
	}
}

func TestCreateClientFromForm(t *testing.T) {
	env := setupTestEnv(t)

	form := url.Values{"Nome": {" Bruno "}, "Idade": {"41"}, "UF": {"rj"}}
	req := httptest.NewRequest(http.MethodPost, "/clientes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, dto.ClientResponse{ID: 1, Name: "Bruno", Age: 41, StateCode: "RJ"}, parseClient(t, w))
}

func TestListClients(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/clientes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	env.createClient(t, map[string]any{"name": "Ana", "age": 30, "state_code": "SP"})
	env.createClient(t, map[string]any{"name": "Bia", "age": 17, "state_code": "RJ"})
	env.createClient(t, map[string]any{"name": "Caio", "age": 52, "state_code": "SP"})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantNames  []string
	}{
		{"all", "", http.StatusOK, []string{"Ana", "Bia", "Caio"}},
		{"by state", "?query=state_code|SP", http.StatusOK, []string{"Ana", "Caio"}},
		{"adults by age desc", "?query=age|gte|18&order=age|desc", http.StatusOK, []string{"Caio", "Ana"}},
		{"unknown field", "?query=secret|1", http.StatusBadRequest, nil},
		{"bad direction", "?order=name|sideways", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(t, http.MethodGet, "/clientes"+tt.query, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, parseErrorResponse(t, w).Error)
				return
			}

			var names []string
			for _, c := range parseClientList(t, w) {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestGetClient(t *testing.T) {
	env := setupTestEnv(t)
	env.createClient(t, map[string]any{"name": "Ana", "age": 30, "state_code": "SP"})

	w := env.request(t, http.MethodGet, "/clientes/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "client not found", parseErrorResponse(t, w).Error)

	w = env.request(t, http.MethodGet, "/clientes/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", parseErrorResponse(t, w).Error)
}

func TestUpdateClient(t *testing.T) {
	env := setupTestEnv(t)
	created := env.createClient(t, map[string]any{"Nome": "Ana Silva", "Idade": 30, "UF": "sp"})

	payload := map[string]any{"nome": "Ana S.", "idade": 31, "uf": "RJ"}
	want := dto.ClientResponse{ID: created.ID, Name: "Ana S.", Age: 31, StateCode: "RJ"}

	for i := 0; i < 2; i++ {
		w := env.request(t, http.MethodPut, "/clientes/1", payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, want, parseClient(t, w))
	}

	w := env.request(t, http.MethodGet, "/clientes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, want, parseClient(t, w))

	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"partial payload", "/clientes/1", map[string]any{"nome": "Only Name"}, http.StatusBadRequest, "validation failed"},
		{"invalid id", "/clientes/abc", payload, http.StatusBadRequest, "invalid id"},
		{"unknown id", "/clientes/42", payload, http.StatusNotFound, "client not found"},
		{"unknown id with invalid body", "/clientes/42", map[string]any{}, http.StatusBadRequest, "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(t, http.MethodPut, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantError, parseErrorResponse(t, w).Error)
		})
	}

	// Rejected updates leave the row untouched.
	w = env.request(t, http.MethodGet, "/clientes/1", nil)
	assert.Equal(t, want, parseClient(t, w))
}

func TestDeleteClient(t *testing.T) {
	env := setupTestEnv(t)
	env.createClient(t, map[string]any{"name": "Ana", "age": 30, "state_code": "SP"})

	w := env.request(t, http.MethodDelete, "/clientes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"id":1}`, w.Body.String())

	w = env.request(t, http.MethodGet, "/clientes/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/clientes/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/clientes/x1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorageFailureReturnsGenericError(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.db.Close())

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/clientes", nil},
		{http.MethodGet, "/clientes/1", nil},
		{http.MethodPost, "/clientes", map[string]any{"name": "Ana", "age": 30, "state_code": "SP"}},
		{http.MethodPut, "/clientes/1", map[string]any{"name": "Ana", "age": 30, "state_code": "SP"}},
		{http.MethodDelete, "/clientes/1", nil},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := env.request(t, r.method, r.path, r.body)
			require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
			assert.Equal(t, dto.ErrorResponse{Error: middleware.InternalErrorMessage}, parseErrorResponse(t, w))
			assert.NotContains(t, w.Body.String(), "closed")
		})
	}

	w := env.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Time)
}
