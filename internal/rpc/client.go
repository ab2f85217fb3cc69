package rpc

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceClient is a client for the youome.v1.LedgerService service.
type LedgerServiceClient struct {
	recordExpense       *connect.Client[RecordExpenseRequest, RecordExpenseResponse]
	settleGroup         *connect.Client[SettleGroupRequest, SettleGroupResponse]
	settleDebt          *connect.Client[SettleDebtRequest, SettleDebtResponse]
	getNetBalance       *connect.Client[GetNetBalanceRequest, GetNetBalanceResponse]
	getNetBalances      *connect.Client[GetNetBalanceRequest, GetNetBalancesResponse]
	getSettlementPlan   *connect.Client[GetSettlementPlanRequest, GetSettlementPlanResponse]
	getRankings         *connect.Client[GetRankingsRequest, GetRankingsResponse]
	createUser          *connect.Client[CreateUserRequest, UserResponse]
	setCurrentUser      *connect.Client[SetCurrentUserRequest, UserResponse]
	getCurrentUser      *connect.Client[Empty, UserResponse]
	listUsers           *connect.Client[Empty, ListUsersResponse]
	createGroup         *connect.Client[CreateGroupRequest, GroupResponse]
	addMembers          *connect.Client[AddMembersRequest, GroupResponse]
	getGroup            *connect.Client[GetGroupRequest, GroupResponse]
	listGroups          *connect.Client[Empty, ListGroupsResponse]
	deleteGroup         *connect.Client[GetGroupRequest, Empty]
	listExpenses        *connect.Client[ListExpensesRequest, ListExpensesResponse]
	getGroupSummaries   *connect.Client[UserViewRequest, GroupSummariesResponse]
	getBalanceSummaries *connect.Client[UserViewRequest, BalanceSummariesResponse]
	getDebtSummaries    *connect.Client[UserViewRequest, DebtSummariesResponse]
	getSpendingFacts    *connect.Client[SpendingFactsRequest, SpendingFactsResponse]
	getWeeklySpending   *connect.Client[UserViewRequest, WeeklySpendingResponse]
}

// NewLedgerServiceClient constructs a client for the youome.v1.LedgerService
// service. The URL should be the server's base URL, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &LedgerServiceClient{
		recordExpense:       connect.NewClient[RecordExpenseRequest, RecordExpenseResponse](httpClient, baseURL+RecordExpenseProcedure, opts...),
		settleGroup:         connect.NewClient[SettleGroupRequest, SettleGroupResponse](httpClient, baseURL+SettleGroupProcedure, opts...),
		settleDebt:          connect.NewClient[SettleDebtRequest, SettleDebtResponse](httpClient, baseURL+SettleDebtProcedure, opts...),
		getNetBalance:       connect.NewClient[GetNetBalanceRequest, GetNetBalanceResponse](httpClient, baseURL+GetNetBalanceProcedure, opts...),
		getNetBalances:      connect.NewClient[GetNetBalanceRequest, GetNetBalancesResponse](httpClient, baseURL+GetNetBalancesProcedure, opts...),
		getSettlementPlan:   connect.NewClient[GetSettlementPlanRequest, GetSettlementPlanResponse](httpClient, baseURL+GetSettlementPlanProcedure, opts...),
		getRankings:         connect.NewClient[GetRankingsRequest, GetRankingsResponse](httpClient, baseURL+GetRankingsProcedure, opts...),
		createUser:          connect.NewClient[CreateUserRequest, UserResponse](httpClient, baseURL+CreateUserProcedure, opts...),
		setCurrentUser:      connect.NewClient[SetCurrentUserRequest, UserResponse](httpClient, baseURL+SetCurrentUserProcedure, opts...),
		getCurrentUser:      connect.NewClient[Empty, UserResponse](httpClient, baseURL+GetCurrentUserProcedure, opts...),
		listUsers:           connect.NewClient[Empty, ListUsersResponse](httpClient, baseURL+ListUsersProcedure, opts...),
		createGroup:         connect.NewClient[CreateGroupRequest, GroupResponse](httpClient, baseURL+CreateGroupProcedure, opts...),
		addMembers:          connect.NewClient[AddMembersRequest, GroupResponse](httpClient, baseURL+AddMembersProcedure, opts...),
		getGroup:            connect.NewClient[GetGroupRequest, GroupResponse](httpClient, baseURL+GetGroupProcedure, opts...),
		listGroups:          connect.NewClient[Empty, ListGroupsResponse](httpClient, baseURL+ListGroupsProcedure, opts...),
		deleteGroup:         connect.NewClient[GetGroupRequest, Empty](httpClient, baseURL+DeleteGroupProcedure, opts...),
		listExpenses:        connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ListExpensesProcedure, opts...),
		getGroupSummaries:   connect.NewClient[UserViewRequest, GroupSummariesResponse](httpClient, baseURL+GetGroupSummariesProcedure, opts...),
		getBalanceSummaries: connect.NewClient[UserViewRequest, BalanceSummariesResponse](httpClient, baseURL+GetBalanceSummariesProcedure, opts...),
		getDebtSummaries:    connect.NewClient[UserViewRequest, DebtSummariesResponse](httpClient, baseURL+GetDebtSummariesProcedure, opts...),
		getSpendingFacts:    connect.NewClient[SpendingFactsRequest, SpendingFactsResponse](httpClient, baseURL+GetSpendingFactsProcedure, opts...),
		getWeeklySpending:   connect.NewClient[UserViewRequest, WeeklySpendingResponse](httpClient, baseURL+GetWeeklySpendingProcedure, opts...),
	}
}

func (c *LedgerServiceClient) RecordExpense(ctx context.Context, req *connect.Request[RecordExpenseRequest]) (*connect.Response[RecordExpenseResponse], error) {
	return c.recordExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleGroup(ctx context.Context, req *connect.Request[SettleGroupRequest]) (*connect.Response[SettleGroupResponse], error) {
	return c.settleGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleDebt(ctx context.Context, req *connect.Request[SettleDebtRequest]) (*connect.Response[SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetNetBalance(ctx context.Context, req *connect.Request[GetNetBalanceRequest]) (*connect.Response[GetNetBalanceResponse], error) {
	return c.getNetBalance.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetNetBalances(ctx context.Context, req *connect.Request[GetNetBalanceRequest]) (*connect.Response[GetNetBalancesResponse], error) {
	return c.getNetBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetRankings(ctx context.Context, req *connect.Request[GetRankingsRequest]) (*connect.Response[GetRankingsResponse], error) {
	return c.getRankings.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[UserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SetCurrentUser(ctx context.Context, req *connect.Request[SetCurrentUserRequest]) (*connect.Response[UserResponse], error) {
	return c.setCurrentUser.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[UserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListUsers(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[GroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[GroupResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[Empty], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroupSummaries(ctx context.Context, req *connect.Request[UserViewRequest]) (*connect.Response[GroupSummariesResponse], error) {
	return c.getGroupSummaries.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalanceSummaries(ctx context.Context, req *connect.Request[UserViewRequest]) (*connect.Response[BalanceSummariesResponse], error) {
	return c.getBalanceSummaries.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetDebtSummaries(ctx context.Context, req *connect.Request[UserViewRequest]) (*connect.Response[DebtSummariesResponse], error) {
	return c.getDebtSummaries.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSpendingFacts(ctx context.Context, req *connect.Request[SpendingFactsRequest]) (*connect.Response[SpendingFactsResponse], error) {
	return c.getSpendingFacts.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetWeeklySpending(ctx context.Context, req *connect.Request[UserViewRequest]) (*connect.Response[WeeklySpendingResponse], error) {
	return c.getWeeklySpending.CallUnary(ctx, req)
}
