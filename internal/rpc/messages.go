package rpc

import (
	"github.com/mmynk/youome/internal/models"
	"github.com/mmynk/youome/internal/service"
)

// Requests shared with the service layer.
type (
	RecordExpenseRequest = service.RecordExpenseRequest
	SettleDebtRequest    = service.SettleDebtRequest
	CreateUserRequest    = service.CreateUserRequest
	CreateGroupRequest   = service.CreateGroupRequest
)

type RecordExpenseResponse struct {
	Debts []models.Debt `json:"debts"`
}

type SettleGroupRequest struct {
	GroupID string `json:"group_id"`
}

type SettleGroupResponse struct {
	Settled int `json:"settled"`
}

type SettleDebtResponse struct {
	Changed bool `json:"changed"`
}

// GetNetBalanceRequest covers one group, or every group when GroupID is
// empty. An empty UserID means the current user.
type GetNetBalanceRequest struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
}

type GetNetBalanceResponse struct {
	Balance float64 `json:"balance"`
}

type GetNetBalancesResponse struct {
	Balances map[string]float64 `json:"balances"`
}

// GetSettlementPlanRequest selects a scope like GetNetBalanceRequest. When
// UserID is set only that user's transfers are returned.
type GetSettlementPlanRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type GetSettlementPlanResponse struct {
	Transfers []models.Transfer `json:"transfers"`
}

type GetRankingsRequest struct {
	IncludeCreditors bool `json:"include_creditors"`
}

type GetRankingsResponse struct {
	Rankings []models.Ranking `json:"rankings"`
}

type UserResponse struct {
	User *models.User `json:"user"`
}

type SetCurrentUserRequest struct {
	UserID string `json:"user_id"`
}

type Empty struct{}

type ListUsersResponse struct {
	Users []*models.User `json:"users"`
}

type GroupResponse struct {
	Group *models.Group `json:"group"`
}

type AddMembersRequest struct {
	GroupID string   `json:"group_id"`
	UserIDs []string `json:"user_ids"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupsResponse struct {
	Groups []*models.Group `json:"groups"`
}

// ListExpensesRequest filters expenses. From and To are Unix milliseconds.
type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
	PayerID string `json:"payer_id"`
	From    int64  `json:"from"`
	To      int64  `json:"to"`
}

type ListExpensesResponse struct {
	Expenses []*models.Expense `json:"expenses"`
}

// UserViewRequest selects the viewpoint of a report. An empty UserID means
// the current user.
type UserViewRequest struct {
	UserID string `json:"user_id"`
}

type GroupSummariesResponse struct {
	Summaries []models.GroupSummary `json:"summaries"`
}

type BalanceSummariesResponse struct {
	Summaries []models.BalanceSummary `json:"summaries"`
}

type DebtSummariesResponse struct {
	Summaries []models.DebtSummary `json:"summaries"`
}

// SpendingFactsRequest covers [From, To) in Unix milliseconds. A zero To
// means now.
type SpendingFactsRequest struct {
	PayerID string `json:"payer_id"`
	From    int64  `json:"from"`
	To      int64  `json:"to"`
}

type SpendingFactsResponse struct {
	Facts []models.SpendingFacts `json:"facts"`
}

type WeeklySpendingResponse struct {
	Weeks []models.WeeklySpending `json:"weeks"`
}
