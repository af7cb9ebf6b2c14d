package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/communitas/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_ListCommunities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/communities", r.URL.Path)

		resp := api.CommunityListResponse{
			Communities: []api.Community{
				{ID: "c1", Name: "Gophers", Slug: "gophers", AccessType: api.AccessFree, MemberCount: 10},
			},
			Total: 1,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.ListCommunities(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Communities, 1)
	assert.Equal(t, "c1", resp.Communities[0].ID)
	assert.Equal(t, 1, resp.Total)
}

// TestClient_ListCommunities_MalformedResponse: сервер прислал 2xx без
// поля communities — клиент подставляет пустой каталог, а не падает
func TestClient_ListCommunities_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.ListCommunities(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, resp.Communities)
	assert.Empty(t, resp.Communities)
	assert.Equal(t, 0, resp.Total)
}

// TestClient_ErrorEnvelope проверяет извлечение причины ошибки:
// error предпочтительнее message, при нечитаемом JSON — статусная строка
func TestClient_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		status      int
	}{
		{
			name:        "error field preferred",
			status:      http.StatusConflict,
			body:        `{"error": "already requested", "message": "ignored"}`,
			wantMessage: "already requested",
		},
		{
			name:        "message fallback",
			status:      http.StatusBadRequest,
			body:        `{"message": "invalid community id"}`,
			wantMessage: "invalid community id",
		},
		{
			name:        "unparseable body falls back to status text",
			status:      http.StatusInternalServerError,
			body:        `<html>Internal Server Error</html>`,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "empty envelope falls back to status text",
			status:      http.StatusForbidden,
			body:        `{}`,
			wantMessage: "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.GetCommunity(context.Background(), "gophers")

			require.Error(t, err)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_TransportErrorHasZeroStatus(t *testing.T) {
	// Сервер сразу закрыт: любой запрос — транспортная ошибка
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	_, err := client.ListCommunities(context.Background())

	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.False(t, IsNotFound(err))
}

func TestClient_JoinCommunity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/communities/join", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.JoinRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "c1", req.CommunityID)

		resp := api.JoinResponse{
			Community: api.Community{ID: "c1", IsMember: true, MemberCount: 11},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.JoinCommunity(context.Background(), "c1")

	require.NoError(t, err)
	assert.True(t, resp.Community.IsMember)
	assert.Equal(t, 11, resp.Community.MemberCount)
}

func TestClient_SetToken_SendsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(api.SCORMPackage{ID: "p1", Status: api.SCORMStatusActive})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("token-123")

	pkg, err := client.GetSCORMPackage(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", pkg.ID)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&Error{Status: http.StatusNotFound}))
	assert.False(t, IsNotFound(&Error{Status: http.StatusInternalServerError}))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, http.StatusNotFound, StatusOf(&Error{Status: http.StatusNotFound}))
	assert.Equal(t, 0, StatusOf(context.Canceled))
}
