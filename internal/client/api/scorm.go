package api

import (
	"context"
	"fmt"

	"github.com/iudanet/communitas/pkg/api"
)

// GetSCORMPackage возвращает SCORM пакет по id (404 если не существует)
func (c *Client) GetSCORMPackage(ctx context.Context, id string) (*api.SCORMPackage, error) {
	var resp api.SCORMPackage
	path := fmt.Sprintf("/api/scorm/packages/%s", id)
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get scorm package request failed: %w", err)
	}
	return &resp, nil
}

// UpdateSCORMPackage частично обновляет пакет (title/description/status)
func (c *Client) UpdateSCORMPackage(ctx context.Context, id string, upd api.SCORMPackageUpdate) (*api.SCORMPackage, error) {
	var resp api.SCORMPackage
	path := fmt.Sprintf("/api/scorm/packages/%s", id)
	if err := c.doRequest(ctx, "PATCH", path, upd, &resp); err != nil {
		return nil, fmt.Errorf("update scorm package request failed: %w", err)
	}
	return &resp, nil
}

// DeleteSCORMPackage выполняет мягкое удаление: status становится inactive
func (c *Client) DeleteSCORMPackage(ctx context.Context, id string) (*api.SCORMPackage, error) {
	var resp api.SCORMPackage
	path := fmt.Sprintf("/api/scorm/packages/%s", id)
	if err := c.doRequest(ctx, "DELETE", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("delete scorm package request failed: %w", err)
	}
	return &resp, nil
}
