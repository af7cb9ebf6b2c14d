package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server/middleware"
	"github.com/iudanet/communitas/internal/server/storage"
	"github.com/iudanet/communitas/pkg/api"
)

// mockCommunityStorage — in-memory реализация CommunityStorage
type mockCommunityStorage struct {
	communities map[string]*models.Community // id -> community
	members     map[string]map[string]bool   // communityID -> userID -> true
	pending     map[string]map[string]bool   // communityID -> userID -> true
	posts       map[string][]models.Post     // communityID -> posts
}

func newMockCommunityStorage() *mockCommunityStorage {
	return &mockCommunityStorage{
		communities: make(map[string]*models.Community),
		members:     make(map[string]map[string]bool),
		pending:     make(map[string]map[string]bool),
		posts:       make(map[string][]models.Post),
	}
}

func (m *mockCommunityStorage) view(c *models.Community, viewerID string) storage.CommunityView {
	isMember := m.members[c.ID][viewerID]
	return storage.CommunityView{
		Community:         *c,
		IsMember:          isMember,
		HasPendingRequest: !isMember && m.pending[c.ID][viewerID],
	}
}

func (m *mockCommunityStorage) ListCommunities(_ context.Context, viewerID string) ([]storage.CommunityView, error) {
	var views []storage.CommunityView
	for _, c := range m.communities {
		views = append(views, m.view(c, viewerID))
	}
	return views, nil
}

func (m *mockCommunityStorage) GetCommunityBySlug(_ context.Context, slug, viewerID string) (*storage.CommunityView, error) {
	for _, c := range m.communities {
		if c.Slug == slug {
			v := m.view(c, viewerID)
			return &v, nil
		}
	}
	return nil, storage.ErrCommunityNotFound
}

func (m *mockCommunityStorage) GetCommunityByID(_ context.Context, id, viewerID string) (*storage.CommunityView, error) {
	c, ok := m.communities[id]
	if !ok {
		return nil, storage.ErrCommunityNotFound
	}
	v := m.view(c, viewerID)
	return &v, nil
}

func (m *mockCommunityStorage) CreateCommunity(_ context.Context, c *models.Community) error {
	m.communities[c.ID] = c
	return nil
}

func (m *mockCommunityStorage) JoinCommunity(_ context.Context, communityID, userID string) (*storage.CommunityView, error) {
	c, ok := m.communities[communityID]
	if !ok {
		return nil, storage.ErrCommunityNotFound
	}
	if m.members[communityID][userID] {
		return nil, storage.ErrAlreadyMember
	}
	if m.members[communityID] == nil {
		m.members[communityID] = make(map[string]bool)
	}
	m.members[communityID][userID] = true
	c.MemberCount++
	v := m.view(c, userID)
	return &v, nil
}

func (m *mockCommunityStorage) CreateAccessRequest(_ context.Context, communityID, userID string) (*models.AccessRequest, *storage.CommunityView, error) {
	c, ok := m.communities[communityID]
	if !ok {
		return nil, nil, storage.ErrCommunityNotFound
	}
	if m.members[communityID][userID] {
		return nil, nil, storage.ErrAlreadyMember
	}
	if m.pending[communityID][userID] {
		return nil, nil, storage.ErrRequestAlreadyPending
	}
	if m.pending[communityID] == nil {
		m.pending[communityID] = make(map[string]bool)
	}
	m.pending[communityID][userID] = true

	req := &models.AccessRequest{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		RequesterID: userID,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
	}
	v := m.view(c, userID)
	return req, &v, nil
}

func (m *mockCommunityStorage) ListPosts(_ context.Context, communityID string, page, limit int) ([]models.Post, int, error) {
	posts := m.posts[communityID]
	total := len(posts)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return posts[start:end], total, nil
}

func (m *mockCommunityStorage) CreatePost(_ context.Context, post *models.Post) error {
	m.posts[post.CommunityID] = append(m.posts[post.CommunityID], *post)
	return nil
}

func addCommunity(m *mockCommunityStorage, slug, accessType string) *models.Community {
	c := &models.Community{
		ID:         uuid.New().String(),
		Name:       "Community " + slug,
		Slug:       slug,
		Visibility: api.VisibilityPublic,
		AccessType: accessType,
	}
	m.communities[c.ID] = c
	return c
}

func authedRequest(method, path string, body any, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestCommunityHandler_List(t *testing.T) {
	store := newMockCommunityStorage()
	addCommunity(store, "golang", api.AccessFree)
	h := NewCommunityHandler(testLogger(), store)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/communities", nil, ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.CommunityListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Communities, 1)
	assert.Equal(t, "golang", resp.Communities[0].Slug)
	assert.False(t, resp.Communities[0].IsMember)
}

func TestCommunityHandler_List_EmptyCatalogIsArray(t *testing.T) {
	h := NewCommunityHandler(testLogger(), newMockCommunityStorage())

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/communities", nil, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	// Пустой каталог сериализуется как [], не null
	assert.Contains(t, rec.Body.String(), `"communities":[]`)
}

func TestCommunityHandler_Get(t *testing.T) {
	store := newMockCommunityStorage()
	addCommunity(store, "golang", api.AccessFree)
	h := NewCommunityHandler(testLogger(), store)

	t.Run("found", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/communities/golang", nil, "")
		req.SetPathValue("slug", "golang")
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var community api.Community
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &community))
		assert.Equal(t, "golang", community.Slug)
	})

	t.Run("not found", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/communities/missing", nil, "")
		req.SetPathValue("slug", "missing")
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid slug", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/communities/Bad_Slug", nil, "")
		req.SetPathValue("slug", "Bad_Slug")
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCommunityHandler_Join_Free(t *testing.T) {
	store := newMockCommunityStorage()
	c := addCommunity(store, "golang", api.AccessFree)
	h := NewCommunityHandler(testLogger(), store)

	rec := httptest.NewRecorder()
	h.Join(rec, authedRequest(http.MethodPost, "/api/communities/join", api.JoinRequest{CommunityID: c.ID}, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.JoinResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Community.IsMember)
	assert.Equal(t, 1, resp.Community.MemberCount)
}

func TestCommunityHandler_Join_Errors(t *testing.T) {
	store := newMockCommunityStorage()
	free := addCommunity(store, "golang", api.AccessFree)
	invite := addCommunity(store, "club", api.AccessInvitationOnly)
	h := NewCommunityHandler(testLogger(), store)

	// Уже участник
	_, err := store.JoinCommunity(context.Background(), free.ID, "user-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "already member", body: api.JoinRequest{CommunityID: free.ID}, wantStatus: http.StatusConflict},
		{name: "non-free community", body: api.JoinRequest{CommunityID: invite.ID}, wantStatus: http.StatusBadRequest},
		{name: "unknown community", body: api.JoinRequest{CommunityID: "nope"}, wantStatus: http.StatusNotFound},
		{name: "missing id", body: api.JoinRequest{}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Join(rec, authedRequest(http.MethodPost, "/api/communities/join", tt.body, "user-1"))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCommunityHandler_RequestAccess(t *testing.T) {
	store := newMockCommunityStorage()
	invite := addCommunity(store, "club", api.AccessInvitationOnly)
	h := NewCommunityHandler(testLogger(), store)

	rec := httptest.NewRecorder()
	h.RequestAccess(rec, authedRequest(http.MethodPost, "/api/communities/request-access", api.JoinRequest{CommunityID: invite.ID}, "user-1"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.RequestAccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.RequestStatusPending, resp.Request.Status)
	assert.True(t, resp.Community.HasPendingRequest)
	assert.False(t, resp.Community.IsMember)

	// Повторная заявка — конфликт
	rec = httptest.NewRecorder()
	h.RequestAccess(rec, authedRequest(http.MethodPost, "/api/communities/request-access", api.JoinRequest{CommunityID: invite.ID}, "user-1"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "access request already pending", errResp.Error)
}

func TestCommunityHandler_Posts(t *testing.T) {
	store := newMockCommunityStorage()
	c := addCommunity(store, "golang", api.AccessFree)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreatePost(context.Background(), &models.Post{
			ID:          uuid.New().String(),
			CommunityID: c.ID,
			AuthorID:    "author",
			Title:       "post",
		}))
	}
	h := NewCommunityHandler(testLogger(), store)

	req := authedRequest(http.MethodGet, "/api/communities/golang/posts?page=1&limit=2", nil, "")
	req.SetPathValue("slug", "golang")
	rec := httptest.NewRecorder()
	h.Posts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PostListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Posts, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.Limit)
}

func TestCommunityHandler_Posts_BadPagination(t *testing.T) {
	store := newMockCommunityStorage()
	addCommunity(store, "golang", api.AccessFree)
	h := NewCommunityHandler(testLogger(), store)

	req := authedRequest(http.MethodGet, "/api/communities/golang/posts?page=zero", nil, "")
	req.SetPathValue("slug", "golang")
	rec := httptest.NewRecorder()
	h.Posts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
