package service

import "github.com/mmynk/youome/internal/models"

// RecordExpenseRequest describes an expense to split. Amount and the
// participant set are checked by the splitter so they fail with
// ErrInvalidAmount and ErrInvalidSplit rather than ErrInvalidInput.
type RecordExpenseRequest struct {
	GroupID     string  `json:"group_id" validate:"required"`
	Description string  `json:"description" validate:"max=255"`
	Amount      float64 `json:"amount"`
	// Currency defaults to the group's currency.
	Currency string `json:"currency" validate:"omitempty,max=16"`
	PayerID  string `json:"payer_id" validate:"required"`
	// Participants is ignored when SplitAll is set.
	Participants []string `json:"participants" validate:"dive,required"`
	SplitAll     bool     `json:"split_all"`
	Category     string   `json:"category" validate:"max=64"`
	// CreatedAt is Unix milliseconds; zero means now.
	CreatedAt int64 `json:"created_at" validate:"gte=0"`
}

// SettleDebtRequest names one debt by its key.
type SettleDebtRequest struct {
	GroupID    string `json:"group_id" validate:"required"`
	DebtorID   string `json:"debtor_id" validate:"required"`
	CreditorID string `json:"creditor_id" validate:"required,nefield=DebtorID"`
}

// CreateUserRequest creates a user.
type CreateUserRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Email         string `json:"email" validate:"omitempty,email"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// CreateGroupRequest creates a group. The creator (the current user when
// CreatorID is empty) becomes the first member, followed by MemberIDs and
// one new user per NewMemberNames entry.
type CreateGroupRequest struct {
	Name           string   `json:"name" validate:"required,max=255"`
	Currency       string   `json:"currency" validate:"omitempty,max=16"`
	Category       string   `json:"category" validate:"max=64"`
	CreatorID      string   `json:"creator_id"`
	MemberIDs      []string `json:"member_ids" validate:"dive,required"`
	NewMemberNames []string `json:"new_member_names" validate:"dive,required,max=255"`
}

func (r RecordExpenseRequest) expense(group *models.Group, createdAt int64) *models.Expense {
	e := &models.Expense{
		GroupID:     r.GroupID,
		Description: r.Description,
		Amount:      r.Amount,
		Currency:    r.Currency,
		PayerID:     r.PayerID,
		SplitAll:    r.SplitAll,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
	}
	if e.Currency == "" {
		e.Currency = group.Currency
	}
	if e.Category == "" {
		e.Category = models.DefaultExpenseCategory
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = createdAt
	}
	return e
}
