package models

// User is a person who can pay for or take part in expenses.
//
// At most one user per installation has IsCurrentUser set; stores enforce
// this when a user is created or promoted.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is optional contact information.
	Email string `json:"email,omitempty"`

	// IsCurrentUser marks the user operating this installation.
	IsCurrentUser bool `json:"is_current_user"`

	// CreatedAt is the Unix millisecond timestamp when the user was created.
	CreatedAt int64 `json:"created_at"`
}

// UnknownUserName is shown for ids that have no matching user record.
const UnknownUserName = "Unknown User"
