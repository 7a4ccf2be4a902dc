package domain

import (
	"github.com/google/uuid"

	dErrors "pulseboard/pkg/domain-errors"
)

// Typed identifiers keep user, profile, notification, and activity IDs from
// being mixed up at compile time. Construct them via the Parse helpers at
// trust boundaries; direct casting bypasses validation.
type (
	UserID         uuid.UUID
	ProfileID      uuid.UUID
	NotificationID uuid.UUID
	ActivityID     uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return parsed, nil
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseProfileID constructs a ProfileID from external input.
func ParseProfileID(s string) (ProfileID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return ProfileID{}, err
	}
	return ProfileID(parsed), nil
}

// ParseNotificationID constructs a NotificationID from external input.
func ParseNotificationID(s string) (NotificationID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return NotificationID{}, err
	}
	return NotificationID(parsed), nil
}

// ParseActivityID constructs an ActivityID from external input.
func ParseActivityID(s string) (ActivityID, error) {
	parsed, err := parseUUID(s)
	if err != nil {
		return ActivityID{}, err
	}
	return ActivityID(parsed), nil
}

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ProfileID) String() string      { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id ActivityID) String() string     { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ActivityID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// NewUserID generates a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewProfileID generates a fresh random ProfileID.
func NewProfileID() ProfileID { return ProfileID(uuid.New()) }

// NewNotificationID generates a fresh random NotificationID.
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

// NewActivityID generates a fresh random ActivityID.
func NewActivityID() ActivityID { return ActivityID(uuid.New()) }

// MarshalText lets typed IDs serialize as their canonical UUID string in JSON.
func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id ProfileID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id NotificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ActivityID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

func unmarshalText(data []byte) (uuid.UUID, error) {
	return uuid.Parse(string(data))
}

func (id *UserID) UnmarshalText(data []byte) error {
	parsed, err := unmarshalText(data)
	if err != nil {
		return err
	}
	*id = UserID(parsed)
	return nil
}

func (id *ProfileID) UnmarshalText(data []byte) error {
	parsed, err := unmarshalText(data)
	if err != nil {
		return err
	}
	*id = ProfileID(parsed)
	return nil
}

func (id *NotificationID) UnmarshalText(data []byte) error {
	parsed, err := unmarshalText(data)
	if err != nil {
		return err
	}
	*id = NotificationID(parsed)
	return nil
}

func (id *ActivityID) UnmarshalText(data []byte) error {
	parsed, err := unmarshalText(data)
	if err != nil {
		return err
	}
	*id = ActivityID(parsed)
	return nil
}
