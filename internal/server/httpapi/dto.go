package httpapi

import (
	"time"

	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/services"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toUser(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toTokens(p *services.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

type boardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBoard(b *models.Board) boardResponse {
	return boardResponse{ID: b.ID, Name: b.Name, Description: b.Description, CreatedBy: b.CreatedBy, CreatedAt: b.CreatedAt}
}

type managerResponse struct {
	UserID    string    `json:"user_id"`
	BoardID   string    `json:"board_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toManager(m *models.BoardManager) managerResponse {
	return managerResponse{UserID: m.UserID, BoardID: m.BoardID, CreatedAt: m.CreatedAt}
}

type postResponse struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	WriterID  string    `json:"writer_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPost(p *models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		BoardID:   p.BoardID,
		WriterID:  p.WriterID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	WriterID  string    `json:"writer_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toComment(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		WriterID:  c.WriterID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type reportResponse struct {
	ID           string    `json:"id"`
	ReporterID   string    `json:"reporter_id"`
	TargetUserID string    `json:"target_user_id"`
	Category     string    `json:"category"`
	Content      string    `json:"content"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReport(r *models.Report) reportResponse {
	return reportResponse{
		ID:           r.ID,
		ReporterID:   r.ReporterID,
		TargetUserID: r.TargetUserID,
		Category:     string(r.Category),
		Content:      r.Content,
		IsRead:       r.IsRead,
		CreatedAt:    r.CreatedAt,
	}
}

type messageResponse struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Kind       string     `json:"kind"`
	Content    string     `json:"content"`
	IsRead     bool       `json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toMessage(m *models.Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Kind:       string(m.Kind),
		Content:    m.Content,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
		CreatedAt:  m.CreatedAt,
	}
}

// mapAll converts a slice of models with fn.
func mapAll[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
