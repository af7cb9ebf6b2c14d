package models

import "time"

// Community представляет сообщество как оно хранится на сервере.
// Флаги is_member/has_pending_request вычисляются per-user при отдаче
// (см. storage.CommunityStorage) и в модели отсутствуют.
type Community struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Visibility  string    `json:"visibility"`  // public | private
	AccessType  string    `json:"access_type"` // free | invitation_only | paid
	MemberCount int       `json:"member_count"`
}

// Membership представляет факт участия пользователя в сообществе
type Membership struct {
	JoinedAt    time.Time `json:"joined_at"`
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
}

// AccessRequest представляет заявку на доступ к закрытому сообществу.
// Статус меняет только сервер (модерация); клиент наблюдает изменение
// через ревалидацию сообщества.
type AccessRequest struct {
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ID          string     `json:"id"`
	CommunityID string     `json:"community_id"`
	RequesterID string     `json:"requester_id"`
	Status      string     `json:"status"` // pending | approved | rejected
	Note        string     `json:"note,omitempty"`
}

// Post представляет пост в ленте сообщества
type Post struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
}

// NewsItem представляет новость общей ленты
type NewsItem struct {
	PublishedAt time.Time `json:"published_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url,omitempty"`
}
