package api

import (
	"context"
	"fmt"

	"github.com/iudanet/communitas/pkg/api"
)

// ListNews возвращает страницу новостной ленты
func (c *Client) ListNews(ctx context.Context, page, limit int) (*api.NewsListResponse, error) {
	var resp api.NewsListResponse
	path := fmt.Sprintf("/api/news?page=%d&limit=%d", page, limit)
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list news request failed: %w", err)
	}
	if resp.News == nil {
		resp.News = []api.NewsItem{}
	}
	return &resp, nil
}
