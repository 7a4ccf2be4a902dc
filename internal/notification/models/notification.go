package models

import (
	"net/url"
	"strings"
	"time"

	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
)

// Type classifies a notification for display.
type Type string

const (
	TypeInfo      Type = "info"
	TypeSuccess   Type = "success"
	TypeWarning   Type = "warning"
	TypeError     Type = "error"
	TypePrimary   Type = "primary"
	TypeSecondary Type = "secondary"
)

var validTypes = map[Type]bool{
	TypeInfo:      true,
	TypeSuccess:   true,
	TypeWarning:   true,
	TypeError:     true,
	TypePrimary:   true,
	TypeSecondary: true,
}

// ParseType constructs a Type from external input. Empty defaults to info.
func ParseType(s string) (Type, error) {
	if s == "" {
		return TypeInfo, nil
	}
	t := Type(s)
	if !validTypes[t] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid notification type")
	}
	return t, nil
}

// Notification is a per-user notice. Write-once except the read flag:
// title, message, type, icon, and URL are fixed at creation.
type Notification struct {
	ID        id.NotificationID `json:"id"`
	UserID    id.UserID         `json:"user_id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Type      Type              `json:"type"`
	Icon      string            `json:"icon,omitempty"`
	URL       string            `json:"url,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateRequest carries a new notification from application logic or the
// admin console.
type CreateRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	URL     string `json:"url"`
}

func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	r.Type = strings.TrimSpace(r.Type)
	r.Icon = strings.TrimSpace(r.Icon)
	r.URL = strings.TrimSpace(r.URL)
}

// Validate rejects malformed notifications before anything is persisted.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(r.Title) > 200 {
		return dErrors.New(dErrors.CodeValidation, "title must be 200 characters or less")
	}
	if r.Message == "" {
		return dErrors.New(dErrors.CodeValidation, "message is required")
	}
	if _, err := ParseType(r.Type); err != nil {
		return err
	}
	if r.URL != "" {
		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return dErrors.New(dErrors.CodeValidation, "url is not a valid URL")
		}
	}
	return nil
}

// NewNotification builds the immutable record from a validated request.
func NewNotification(notificationID id.NotificationID, userID id.UserID, req *CreateRequest, now time.Time) *Notification {
	typ, _ := ParseType(req.Type)
	return &Notification{
		ID:        notificationID,
		UserID:    userID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      typ,
		Icon:      req.Icon,
		URL:       req.URL,
		CreatedAt: now,
	}
}
