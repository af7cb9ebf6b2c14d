package api

import "time"

// Visibility сообщества
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Типы доступа к сообществу
const (
	AccessFree           = "free"
	AccessInvitationOnly = "invitation_only"
	AccessPaid           = "paid"
)

// Community представляет сообщество в каталоге.
// Поля is_member и has_pending_request вычисляются сервером для текущего
// пользователя и взаимоисключающи: участник не может иметь pending request.
type Community struct {
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Slug              string    `json:"slug"`
	Visibility        string    `json:"visibility"`  // public | private
	AccessType        string    `json:"access_type"` // free | invitation_only | paid
	MemberCount       int       `json:"member_count"`
	IsMember          bool      `json:"is_member"`
	HasPendingRequest bool      `json:"has_pending_request"`
}

// CommunityListResponse представляет ответ GET /api/communities
type CommunityListResponse struct {
	Communities []Community `json:"communities"`
	Total       int         `json:"total"`
}

// JoinRequest представляет тело POST /api/communities/join
// и POST /api/communities/request-access
type JoinRequest struct {
	CommunityID string `json:"communityId"`
}

// JoinResponse представляет ответ на успешный join.
// Сервер возвращает авторитативное состояние сообщества после вступления.
type JoinResponse struct {
	Community Community `json:"community"`
	Message   string    `json:"message,omitempty"`
}

// Статусы запроса доступа
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// AccessRequest представляет заявку на доступ к закрытому сообществу
type AccessRequest struct {
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ID          string     `json:"id"`
	CommunityID string     `json:"community_id"`
	RequesterID string     `json:"requester_id"`
	Status      string     `json:"status"` // pending | approved | rejected
	Note        string     `json:"note,omitempty"`
}

// RequestAccessResponse представляет ответ на успешный request-access
type RequestAccessResponse struct {
	Community Community     `json:"community"`
	Request   AccessRequest `json:"request"`
}

// Post представляет пост внутри сообщества
type Post struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
}

// PostListResponse представляет ответ GET /api/communities/{slug}/posts
type PostListResponse struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}
