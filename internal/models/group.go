package models

const (
	// DefaultCurrency is used when a group or expense has no currency label.
	DefaultCurrency = "USD"

	// DefaultGroupCategory is the category of a group created without one.
	DefaultGroupCategory = "Other"
)

// Group is a named collection of users sharing expenses.
// Deleting a group removes its memberships, expenses and debts.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Currency is the default currency label for the group's expenses.
	Currency string `json:"currency"`

	// Category is a free-form tag (e.g., "Trip", "Home").
	Category string `json:"category"`

	// Members holds the user IDs of the group's members in join order.
	Members []string `json:"members"`

	// CreatedAt is the Unix millisecond timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Membership joins a user to a group. Unique per (GroupID, UserID).
type Membership struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}
