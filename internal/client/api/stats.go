package api

import (
	"context"
	"fmt"

	"github.com/iudanet/communitas/pkg/api"
)

// Admin user-stats CRUD. Тонкие обёртки над REST без собственной логики:
// каждая возвращает сохранённую сущность или *Error при не-2xx.

// ListUserProfiles возвращает все профили пользователей
func (c *Client) ListUserProfiles(ctx context.Context) (*api.ListResponse[api.UserProfile], error) {
	var resp api.ListResponse[api.UserProfile]
	if err := c.doRequest(ctx, "GET", "/api/admin/user-stats/profiles", nil, &resp); err != nil {
		return nil, fmt.Errorf("list profiles request failed: %w", err)
	}
	return &resp, nil
}

// CreateUserProfile создает профиль
func (c *Client) CreateUserProfile(ctx context.Context, p api.UserProfile) (*api.UserProfile, error) {
	var resp api.UserProfile
	if err := c.doRequest(ctx, "POST", "/api/admin/user-stats/profiles", p, &resp); err != nil {
		return nil, fmt.Errorf("create profile request failed: %w", err)
	}
	return &resp, nil
}

// UpdateUserProfile обновляет профиль целиком
func (c *Client) UpdateUserProfile(ctx context.Context, p api.UserProfile) (*api.UserProfile, error) {
	var resp api.UserProfile
	path := fmt.Sprintf("/api/admin/user-stats/profiles/%s", p.ID)
	if err := c.doRequest(ctx, "PUT", path, p, &resp); err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &resp, nil
}

// DeleteUserProfile удаляет профиль
func (c *Client) DeleteUserProfile(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/user-stats/profiles/%s", id)
	if err := c.doRequest(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("delete profile request failed: %w", err)
	}
	return nil
}

// ListQuestions возвращает вопросы опросника
func (c *Client) ListQuestions(ctx context.Context) (*api.ListResponse[api.Question], error) {
	var resp api.ListResponse[api.Question]
	if err := c.doRequest(ctx, "GET", "/api/admin/user-stats/questions", nil, &resp); err != nil {
		return nil, fmt.Errorf("list questions request failed: %w", err)
	}
	return &resp, nil
}

// CreateQuestion создает вопрос
func (c *Client) CreateQuestion(ctx context.Context, q api.Question) (*api.Question, error) {
	var resp api.Question
	if err := c.doRequest(ctx, "POST", "/api/admin/user-stats/questions", q, &resp); err != nil {
		return nil, fmt.Errorf("create question request failed: %w", err)
	}
	return &resp, nil
}

// UpdateQuestion обновляет вопрос
func (c *Client) UpdateQuestion(ctx context.Context, q api.Question) (*api.Question, error) {
	var resp api.Question
	path := fmt.Sprintf("/api/admin/user-stats/questions/%s", q.ID)
	if err := c.doRequest(ctx, "PUT", path, q, &resp); err != nil {
		return nil, fmt.Errorf("update question request failed: %w", err)
	}
	return &resp, nil
}

// DeleteQuestion удаляет вопрос
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/user-stats/questions/%s", id)
	if err := c.doRequest(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("delete question request failed: %w", err)
	}
	return nil
}

// ListAnswers возвращает ответы
func (c *Client) ListAnswers(ctx context.Context) (*api.ListResponse[api.Answer], error) {
	var resp api.ListResponse[api.Answer]
	if err := c.doRequest(ctx, "GET", "/api/admin/user-stats/answers", nil, &resp); err != nil {
		return nil, fmt.Errorf("list answers request failed: %w", err)
	}
	return &resp, nil
}

// CreateAnswer создает ответ
func (c *Client) CreateAnswer(ctx context.Context, a api.Answer) (*api.Answer, error) {
	var resp api.Answer
	if err := c.doRequest(ctx, "POST", "/api/admin/user-stats/answers", a, &resp); err != nil {
		return nil, fmt.Errorf("create answer request failed: %w", err)
	}
	return &resp, nil
}

// DeleteAnswer удаляет ответ
func (c *Client) DeleteAnswer(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/user-stats/answers/%s", id)
	if err := c.doRequest(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("delete answer request failed: %w", err)
	}
	return nil
}

// ListGenAIAdoption возвращает записи GenAI adoption
func (c *Client) ListGenAIAdoption(ctx context.Context) (*api.ListResponse[api.GenAIAdoption], error) {
	var resp api.ListResponse[api.GenAIAdoption]
	if err := c.doRequest(ctx, "GET", "/api/admin/user-stats/genai-adoption", nil, &resp); err != nil {
		return nil, fmt.Errorf("list genai adoption request failed: %w", err)
	}
	return &resp, nil
}

// CreateGenAIAdoption создает запись GenAI adoption
func (c *Client) CreateGenAIAdoption(ctx context.Context, g api.GenAIAdoption) (*api.GenAIAdoption, error) {
	var resp api.GenAIAdoption
	if err := c.doRequest(ctx, "POST", "/api/admin/user-stats/genai-adoption", g, &resp); err != nil {
		return nil, fmt.Errorf("create genai adoption request failed: %w", err)
	}
	return &resp, nil
}

// ListLookup возвращает справочник по имени таблицы
// (roles, levels, areas, relationships, company-sizes, sectors)
func (c *Client) ListLookup(ctx context.Context, table string) (*api.ListResponse[api.LookupItem], error) {
	var resp api.ListResponse[api.LookupItem]
	path := fmt.Sprintf("/api/admin/user-stats/lookup/%s", table)
	if err := c.doRequest(ctx, "GET", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list lookup %s request failed: %w", table, err)
	}
	return &resp, nil
}
