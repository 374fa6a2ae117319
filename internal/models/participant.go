package models

import (
	"errors"
	"fmt"
)

// ParticipantKind distinguishes registered app users from external contacts.
type ParticipantKind string

const (
	// KindAppUser is a registered user with an email address.
	KindAppUser ParticipantKind = "app_user"

	// KindContact is an external person tracked by name only.
	// Contacts cannot log in; they exist so expenses can be split with
	// people who never installed the app.
	KindContact ParticipantKind = "contact"
)

var (
	// ErrMissingName is returned when a participant has no display name.
	ErrMissingName = errors.New("participant name required")

	// ErrMissingEmail is returned when an app user lacks an email address.
	ErrMissingEmail = errors.New("app user requires an email")

	// ErrUnknownKind is returned for a kind outside the known set.
	ErrUnknownKind = errors.New("unknown participant kind")
)

// Participant represents one person involved in shared expenses.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Kind tags the participant as an app user or external contact.
	Kind ParticipantKind `json:"kind"`

	// Email is required for app users, empty for contacts.
	Email string `json:"email,omitempty"`

	// AvatarURL is an optional profile picture URL.
	AvatarURL string `json:"avatar_url,omitempty"`

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64 `json:"created_at"`
}

// NewAppUser builds a registered-user participant.
func NewAppUser(name, email string) Participant {
	return Participant{Name: name, Kind: KindAppUser, Email: email}
}

// NewContact builds an external-contact participant.
func NewContact(name string) Participant {
	return Participant{Name: name, Kind: KindContact}
}

// Validate checks the kind-specific invariants.
func (p Participant) Validate() error {
	if p.Name == "" {
		return ErrMissingName
	}
	switch p.Kind {
	case KindAppUser:
		if p.Email == "" {
			return ErrMissingEmail
		}
	case KindContact:
		// Email is optional for contacts.
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
	return nil
}
