package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/youome/internal/calculator"
	"github.com/mmynk/youome/internal/models"
)

// SettleGroup marks every outstanding debt in the group settled and
// returns how many changed.
func (s *Service) SettleGroup(ctx context.Context, groupID string) (int, error) {
	slog.Info("SettleGroup request received", "group_id", groupID)

	n, err := s.ledger.SettleGroup(ctx, groupID)
	if err != nil {
		slog.Error("SettleGroup failed", "group_id", groupID, "error", err)
		return 0, err
	}
	if n > 0 {
		s.mutated(ctx, groupID)
		s.metrics.DebtsSettled(n)
	}

	slog.Info("Group settled", "group_id", groupID, "debts_settled", n)
	return n, nil
}

// SettleDebt settles one debt. It reports false when the debt was
// already settled.
func (s *Service) SettleDebt(ctx context.Context, req SettleDebtRequest) (bool, error) {
	slog.Info("SettleDebt request received",
		"group_id", req.GroupID,
		"debtor_id", req.DebtorID,
		"creditor_id", req.CreditorID,
	)

	if err := s.validate.Struct(req); err != nil {
		return false, err
	}

	changed, err := s.ledger.SettleOne(ctx, req.GroupID, req.DebtorID, req.CreditorID)
	if err != nil {
		slog.Error("SettleDebt failed", "group_id", req.GroupID, "error", err)
		return false, err
	}
	if changed {
		s.mutated(ctx, req.GroupID)
		s.metrics.DebtsSettled(1)
	}
	return changed, nil
}

// GetNetBalance returns userID's net balance in scope. Positive means the
// user is owed money.
func (s *Service) GetNetBalance(ctx context.Context, userID string, scope models.Scope) (float64, error) {
	userID, err := s.viewer(ctx, userID)
	if err != nil {
		return 0, err
	}
	bal, err := s.ledger.NetBalance(ctx, userID, scope)
	if err != nil {
		return 0, err
	}
	slog.Debug("Net balance computed", "user_id", userID, "scope", scope.String(), "balance", bal)
	return bal, nil
}

// GetNetBalances returns userID's net balance per currency in scope.
func (s *Service) GetNetBalances(ctx context.Context, userID string, scope models.Scope) (map[string]float64, error) {
	userID, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.NetBalances(ctx, userID, scope)
}

// GetSettlementPlan returns the transfers that settle every outstanding
// debt in scope. Plans are served from the cache when one is configured.
func (s *Service) GetSettlementPlan(ctx context.Context, scope models.Scope) ([]models.Transfer, error) {
	if err := s.checkScope(ctx, scope); err != nil {
		return nil, err
	}

	if s.cache != nil {
		plan, ok, err := s.cache.GetPlan(ctx, scope)
		if err != nil {
			slog.Warn("Plan cache read failed", "scope", scope.String(), "error", err)
		}
		s.metrics.PlanCacheLookup(ok)
		if ok {
			return plan, nil
		}
	}

	gen := s.generation.Load()
	debts, err := s.ledger.Debts(ctx, scope.Filter())
	if err != nil {
		return nil, err
	}
	plan := calculator.PlanSettlement(debts)
	s.metrics.PlanComputed(len(plan))

	slog.Debug("Settlement plan computed",
		"scope", scope.String(),
		"debts", len(debts),
		"transfers", len(plan),
	)

	if s.cache != nil && s.generation.Load() == gen {
		s.storePlan(ctx, scope, plan, gen)
	}
	return plan, nil
}

// storePlan caches plan, computed at generation gen. A mutation bumps the
// generation before invalidating, so if the generation moved while the
// write was in flight the invalidation may have run first and the entry is
// dropped again here.
func (s *Service) storePlan(ctx context.Context, scope models.Scope, plan []models.Transfer, gen uint64) {
	if err := s.cache.SetPlan(ctx, scope, plan); err != nil {
		slog.Warn("Plan cache write failed", "scope", scope.String(), "error", err)
		return
	}
	if s.generation.Load() == gen {
		return
	}
	if err := s.cache.Invalidate(ctx, scope); err != nil {
		slog.Warn("Failed to drop stale plan", "scope", scope.String(), "error", err)
	}
}

// GetSettlementPlanFor returns the transfers of the scope's plan that
// userID pays or receives.
func (s *Service) GetSettlementPlanFor(ctx context.Context, scope models.Scope, userID string) ([]models.Transfer, error) {
	userID, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.GetSettlementPlan(ctx, scope)
	if err != nil {
		return nil, err
	}
	return calculator.FilterTransfers(plan, userID), nil
}

// GetRankings returns the debt leaderboard across every group.
func (s *Service) GetRankings(ctx context.Context, opts calculator.RankingOptions) ([]models.Ranking, error) {
	debts, err := s.ledger.Debts(ctx, models.AllGroups.Filter())
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.Rankings(debts, users, opts), nil
}
