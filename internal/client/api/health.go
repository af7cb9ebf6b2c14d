package api

import (
	"context"
	"net/http"
)

// Health проверяет доступность сервера. Используется health-probe
// клиента как источник сигнала "восстановление сети".
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	return c.doRequest(ctx, http.MethodGet, "/api/health", nil, &resp)
}
