package api

import (
	"context"
	"fmt"

	"github.com/iudanet/communitas/pkg/api"
)

// ListCommunities возвращает каталог сообществ.
// Сервер, вернувший 2xx без поля communities, трактуется как пустой каталог:
// UI должен оставаться рендерируемым, а не падать на неполном ответе.
func (c *Client) ListCommunities(ctx context.Context) (*api.CommunityListResponse, error) {
	var resp api.CommunityListResponse
	if err := c.doRequest(ctx, "GET", "/api/communities", nil, &resp); err != nil {
		return nil, fmt.Errorf("list communities request failed: %w", err)
	}
	if resp.Communities == nil {
		resp.Communities = []api.Community{}
		resp.Total = 0
	}
	return &resp, nil
}

// GetCommunity возвращает одно сообщество по slug
func (c *Client) GetCommunity(ctx context.Context, slug string) (*api.Community, error) {
	var resp api.Community
	path := fmt.Sprintf("/api/communities/%s", slug)
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get community request failed: %w", err)
	}
	return &resp, nil
}

// ListPosts возвращает страницу ленты сообщества
func (c *Client) ListPosts(ctx context.Context, slug string, page, limit int) (*api.PostListResponse, error) {
	var resp api.PostListResponse
	path := fmt.Sprintf("/api/communities/%s/posts?page=%d&limit=%d", slug, page, limit)
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list posts request failed: %w", err)
	}
	if resp.Posts == nil {
		resp.Posts = []api.Post{}
	}
	return &resp, nil
}

// JoinCommunity вступает в бесплатное сообщество.
// Сервер возвращает авторитативное состояние сообщества.
func (c *Client) JoinCommunity(ctx context.Context, communityID string) (*api.JoinResponse, error) {
	var resp api.JoinResponse
	req := api.JoinRequest{CommunityID: communityID}
	if err := c.doRequest(ctx, "POST", "/api/communities/join", req, &resp); err != nil {
		return nil, fmt.Errorf("join request failed: %w", err)
	}
	return &resp, nil
}

// RequestAccess создает заявку на доступ к закрытому сообществу
func (c *Client) RequestAccess(ctx context.Context, communityID string) (*api.RequestAccessResponse, error) {
	var resp api.RequestAccessResponse
	req := api.JoinRequest{CommunityID: communityID}
	if err := c.doRequest(ctx, "POST", "/api/communities/request-access", req, &resp); err != nil {
		return nil, fmt.Errorf("request-access request failed: %w", err)
	}
	return &resp, nil
}
