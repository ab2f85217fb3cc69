// Package rpc exposes the service over Connect as youome.v1.LedgerService.
// Messages are plain Go structs encoded with Codec.
package rpc

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/youome/internal/calculator"
	"github.com/mmynk/youome/internal/models"
	"github.com/mmynk/youome/internal/service"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "youome.v1.LedgerService"

// Procedure paths, one per unary RPC.
const (
	RecordExpenseProcedure       = "/youome.v1.LedgerService/RecordExpense"
	SettleGroupProcedure         = "/youome.v1.LedgerService/SettleGroup"
	SettleDebtProcedure          = "/youome.v1.LedgerService/SettleDebt"
	GetNetBalanceProcedure       = "/youome.v1.LedgerService/GetNetBalance"
	GetNetBalancesProcedure      = "/youome.v1.LedgerService/GetNetBalances"
	GetSettlementPlanProcedure   = "/youome.v1.LedgerService/GetSettlementPlan"
	GetRankingsProcedure         = "/youome.v1.LedgerService/GetRankings"
	CreateUserProcedure          = "/youome.v1.LedgerService/CreateUser"
	SetCurrentUserProcedure      = "/youome.v1.LedgerService/SetCurrentUser"
	GetCurrentUserProcedure      = "/youome.v1.LedgerService/GetCurrentUser"
	ListUsersProcedure           = "/youome.v1.LedgerService/ListUsers"
	CreateGroupProcedure         = "/youome.v1.LedgerService/CreateGroup"
	AddMembersProcedure          = "/youome.v1.LedgerService/AddMembers"
	GetGroupProcedure            = "/youome.v1.LedgerService/GetGroup"
	ListGroupsProcedure          = "/youome.v1.LedgerService/ListGroups"
	DeleteGroupProcedure         = "/youome.v1.LedgerService/DeleteGroup"
	ListExpensesProcedure        = "/youome.v1.LedgerService/ListExpenses"
	GetGroupSummariesProcedure   = "/youome.v1.LedgerService/GetGroupSummaries"
	GetBalanceSummariesProcedure = "/youome.v1.LedgerService/GetBalanceSummaries"
	GetDebtSummariesProcedure    = "/youome.v1.LedgerService/GetDebtSummaries"
	GetSpendingFactsProcedure    = "/youome.v1.LedgerService/GetSpendingFacts"
	GetWeeklySpendingProcedure   = "/youome.v1.LedgerService/GetWeeklySpending"
)

func scopeOf(groupID string) models.Scope {
	if groupID == "" {
		return models.AllGroups
	}
	return models.GroupScope(groupID)
}

// unary adapts a plain function into a Connect handler and maps its
// errors to Connect codes.
func unary[Req, Res any](procedure string, fn func(context.Context, *Req) (*Res, error), opts []connect.HandlerOption) http.Handler {
	return connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, toConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		opts...,
	)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc *service.Service, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	h := &handler{svc: svc}

	routes := map[string]http.Handler{
		RecordExpenseProcedure:       unary(RecordExpenseProcedure, h.recordExpense, opts),
		SettleGroupProcedure:         unary(SettleGroupProcedure, h.settleGroup, opts),
		SettleDebtProcedure:          unary(SettleDebtProcedure, h.settleDebt, opts),
		GetNetBalanceProcedure:       unary(GetNetBalanceProcedure, h.getNetBalance, opts),
		GetNetBalancesProcedure:      unary(GetNetBalancesProcedure, h.getNetBalances, opts),
		GetSettlementPlanProcedure:   unary(GetSettlementPlanProcedure, h.getSettlementPlan, opts),
		GetRankingsProcedure:         unary(GetRankingsProcedure, h.getRankings, opts),
		CreateUserProcedure:          unary(CreateUserProcedure, h.createUser, opts),
		SetCurrentUserProcedure:      unary(SetCurrentUserProcedure, h.setCurrentUser, opts),
		GetCurrentUserProcedure:      unary(GetCurrentUserProcedure, h.getCurrentUser, opts),
		ListUsersProcedure:           unary(ListUsersProcedure, h.listUsers, opts),
		CreateGroupProcedure:         unary(CreateGroupProcedure, h.createGroup, opts),
		AddMembersProcedure:          unary(AddMembersProcedure, h.addMembers, opts),
		GetGroupProcedure:            unary(GetGroupProcedure, h.getGroup, opts),
		ListGroupsProcedure:          unary(ListGroupsProcedure, h.listGroups, opts),
		DeleteGroupProcedure:         unary(DeleteGroupProcedure, h.deleteGroup, opts),
		ListExpensesProcedure:        unary(ListExpensesProcedure, h.listExpenses, opts),
		GetGroupSummariesProcedure:   unary(GetGroupSummariesProcedure, h.getGroupSummaries, opts),
		GetBalanceSummariesProcedure: unary(GetBalanceSummariesProcedure, h.getBalanceSummaries, opts),
		GetDebtSummariesProcedure:    unary(GetDebtSummariesProcedure, h.getDebtSummaries, opts),
		GetSpendingFactsProcedure:    unary(GetSpendingFactsProcedure, h.getSpendingFacts, opts),
		GetWeeklySpendingProcedure:   unary(GetWeeklySpendingProcedure, h.getWeeklySpending, opts),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route, ok := routes[r.URL.Path]; ok {
			route.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// handler adapts Service methods to request and response messages.
type handler struct {
	svc *service.Service
}

func (h *handler) recordExpense(ctx context.Context, req *RecordExpenseRequest) (*RecordExpenseResponse, error) {
	debts, err := h.svc.RecordExpense(ctx, *req)
	if err != nil {
		return nil, err
	}
	return &RecordExpenseResponse{Debts: debts}, nil
}

func (h *handler) settleGroup(ctx context.Context, req *SettleGroupRequest) (*SettleGroupResponse, error) {
	n, err := h.svc.SettleGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	return &SettleGroupResponse{Settled: n}, nil
}

func (h *handler) settleDebt(ctx context.Context, req *SettleDebtRequest) (*SettleDebtResponse, error) {
	changed, err := h.svc.SettleDebt(ctx, *req)
	if err != nil {
		return nil, err
	}
	return &SettleDebtResponse{Changed: changed}, nil
}

func (h *handler) getNetBalance(ctx context.Context, req *GetNetBalanceRequest) (*GetNetBalanceResponse, error) {
	bal, err := h.svc.GetNetBalance(ctx, req.UserID, scopeOf(req.GroupID))
	if err != nil {
		return nil, err
	}
	return &GetNetBalanceResponse{Balance: bal}, nil
}

func (h *handler) getNetBalances(ctx context.Context, req *GetNetBalanceRequest) (*GetNetBalancesResponse, error) {
	balances, err := h.svc.GetNetBalances(ctx, req.UserID, scopeOf(req.GroupID))
	if err != nil {
		return nil, err
	}
	return &GetNetBalancesResponse{Balances: balances}, nil
}

func (h *handler) getSettlementPlan(ctx context.Context, req *GetSettlementPlanRequest) (*GetSettlementPlanResponse, error) {
	var (
		plan []models.Transfer
		err  error
	)
	if req.UserID != "" {
		plan, err = h.svc.GetSettlementPlanFor(ctx, scopeOf(req.GroupID), req.UserID)
	} else {
		plan, err = h.svc.GetSettlementPlan(ctx, scopeOf(req.GroupID))
	}
	if err != nil {
		return nil, err
	}
	return &GetSettlementPlanResponse{Transfers: plan}, nil
}

func (h *handler) getRankings(ctx context.Context, req *GetRankingsRequest) (*GetRankingsResponse, error) {
	rankings, err := h.svc.GetRankings(ctx, calculator.RankingOptions{IncludeCreditors: req.IncludeCreditors})
	if err != nil {
		return nil, err
	}
	return &GetRankingsResponse{Rankings: rankings}, nil
}

func (h *handler) createUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	user, err := h.svc.CreateUser(ctx, *req)
	if err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

func (h *handler) setCurrentUser(ctx context.Context, req *SetCurrentUserRequest) (*UserResponse, error) {
	if err := h.svc.SetCurrentUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	user, err := h.svc.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

func (h *handler) getCurrentUser(ctx context.Context, _ *Empty) (*UserResponse, error) {
	user, err := h.svc.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

func (h *handler) listUsers(ctx context.Context, _ *Empty) (*ListUsersResponse, error) {
	users, err := h.svc.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &ListUsersResponse{Users: users}, nil
}

func (h *handler) createGroup(ctx context.Context, req *CreateGroupRequest) (*GroupResponse, error) {
	group, err := h.svc.CreateGroup(ctx, *req)
	if err != nil {
		return nil, err
	}
	return &GroupResponse{Group: group}, nil
}

func (h *handler) addMembers(ctx context.Context, req *AddMembersRequest) (*GroupResponse, error) {
	group, err := h.svc.AddMembers(ctx, req.GroupID, req.UserIDs)
	if err != nil {
		return nil, err
	}
	return &GroupResponse{Group: group}, nil
}

func (h *handler) getGroup(ctx context.Context, req *GetGroupRequest) (*GroupResponse, error) {
	group, err := h.svc.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	return &GroupResponse{Group: group}, nil
}

func (h *handler) listGroups(ctx context.Context, _ *Empty) (*ListGroupsResponse, error) {
	groups, err := h.svc.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	return &ListGroupsResponse{Groups: groups}, nil
}

func (h *handler) deleteGroup(ctx context.Context, req *GetGroupRequest) (*Empty, error) {
	if err := h.svc.DeleteGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *handler) listExpenses(ctx context.Context, req *ListExpensesRequest) (*ListExpensesResponse, error) {
	expenses, err := h.svc.ListExpenses(ctx, models.ExpenseFilter{
		GroupID: req.GroupID,
		PayerID: req.PayerID,
		From:    req.From,
		To:      req.To,
	})
	if err != nil {
		return nil, err
	}
	return &ListExpensesResponse{Expenses: expenses}, nil
}

func (h *handler) getGroupSummaries(ctx context.Context, req *UserViewRequest) (*GroupSummariesResponse, error) {
	summaries, err := h.svc.GroupSummaries(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &GroupSummariesResponse{Summaries: summaries}, nil
}

func (h *handler) getBalanceSummaries(ctx context.Context, req *UserViewRequest) (*BalanceSummariesResponse, error) {
	summaries, err := h.svc.BalanceSummaries(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &BalanceSummariesResponse{Summaries: summaries}, nil
}

func (h *handler) getDebtSummaries(ctx context.Context, req *UserViewRequest) (*DebtSummariesResponse, error) {
	summaries, err := h.svc.DebtSummaries(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &DebtSummariesResponse{Summaries: summaries}, nil
}

func (h *handler) getSpendingFacts(ctx context.Context, req *SpendingFactsRequest) (*SpendingFactsResponse, error) {
	to := time.Now()
	if req.To != 0 {
		to = time.UnixMilli(req.To)
	}
	facts, err := h.svc.SpendingFacts(ctx, req.PayerID, time.UnixMilli(req.From), to)
	if err != nil {
		return nil, err
	}
	return &SpendingFactsResponse{Facts: facts}, nil
}

func (h *handler) getWeeklySpending(ctx context.Context, req *UserViewRequest) (*WeeklySpendingResponse, error) {
	weeks, err := h.svc.WeeklySpending(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &WeeklySpendingResponse{Weeks: weeks}, nil
}
