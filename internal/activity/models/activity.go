package models

import (
	"net"
	"strings"
	"time"

	"github.com/mssola/useragent"

	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
)

// Activity is one append-only audit record of a user action.
//
// Invariants:
//   - Never modified or deleted through normal operation; the admin surface
//     presents these records read-only
//   - Removed only by the user-deletion cascade
//   - Listings are newest-first
type Activity struct {
	ID           id.ActivityID  `json:"id"`
	UserID       id.UserID      `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// RecordRequest carries a new activity record from application logic.
// IP and user agent fall back to request metadata when left empty.
type RecordRequest struct {
	ActivityType string         `json:"activity_type"`
	Details      map[string]any `json:"details"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
}

func (r *RecordRequest) Normalize() {
	r.ActivityType = strings.TrimSpace(r.ActivityType)
	r.IPAddress = strings.TrimSpace(r.IPAddress)
	r.UserAgent = strings.TrimSpace(r.UserAgent)
}

// Validate rejects malformed records before anything is persisted.
func (r *RecordRequest) Validate() error {
	if r.ActivityType == "" {
		return dErrors.New(dErrors.CodeValidation, "activity_type is required")
	}
	if len(r.ActivityType) > 100 {
		return dErrors.New(dErrors.CodeValidation, "activity_type must be 100 characters or less")
	}
	if r.IPAddress != "" && net.ParseIP(r.IPAddress) == nil {
		return dErrors.New(dErrors.CodeValidation, "ip_address is not a valid IP address")
	}
	return nil
}

// NewActivity builds the immutable record from a validated request.
func NewActivity(activityID id.ActivityID, userID id.UserID, req *RecordRequest, now time.Time) *Activity {
	return &Activity{
		ID:           activityID,
		UserID:       userID,
		ActivityType: req.ActivityType,
		Details:      req.Details,
		IPAddress:    req.IPAddress,
		UserAgent:    req.UserAgent,
		CreatedAt:    now,
	}
}

// View is an Activity enriched with a human-readable client description for
// the admin console and activity page.
type View struct {
	Activity
	Client string `json:"client,omitempty"`
}

// DescribeClient condenses a raw User-Agent into "Browser x.y on OS".
// Unparseable agents come back empty and the UI shows the raw string.
func DescribeClient(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return ""
	}
	// The parser echoes the leading token back as the browser name when it
	// does not recognize the agent; treat that as unparsed.
	if first, _, _ := strings.Cut(rawUA, " "); name == first && version == "" {
		return ""
	}
	out := name
	if version != "" {
		out += " " + version
	}
	if os := ua.OS(); os != "" {
		out += " on " + os
	}
	return out
}
