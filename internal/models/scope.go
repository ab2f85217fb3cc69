package models

// Scope selects the debts a balance or plan is computed over: either a
// single group or every group.
type Scope struct {
	// GroupID is empty for the all-groups scope.
	GroupID string `json:"group_id,omitempty"`
}

// AllGroups is the scope covering every group.
var AllGroups = Scope{}

// GroupScope returns the scope of a single group.
func GroupScope(groupID string) Scope {
	return Scope{GroupID: groupID}
}

// IsAll reports whether the scope covers every group.
func (s Scope) IsAll() bool {
	return s.GroupID == ""
}

// Filter returns the unsettled-debt filter for the scope.
func (s Scope) Filter() DebtFilter {
	return DebtFilter{GroupID: s.GroupID, Unsettled: true}
}

func (s Scope) String() string {
	if s.IsAll() {
		return "all"
	}
	return "group:" + s.GroupID
}
