package api

import "time"

// NewsItem представляет одну новость ленты
type NewsItem struct {
	PublishedAt time.Time `json:"published_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url,omitempty"`
}

// NewsListResponse представляет ответ GET /api/news
type NewsListResponse struct {
	News  []NewsItem `json:"news"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
