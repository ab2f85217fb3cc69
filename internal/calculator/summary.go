package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/youome/internal/models"
)

// RankingOptions controls the debt leaderboard.
type RankingOptions struct {
	// IncludeCreditors returns the full signed list instead of net debtors only.
	IncludeCreditors bool
}

// Rankings builds the leaderboard of net balances, one row per user and
// currency, sorted ascending (largest debtor first). By default only rows
// with a balance <= 0 are kept. The current user always appears, with a zero
// balance if they have no outstanding debts.
func Rankings(debts []models.Debt, users []*models.User, opts RankingOptions) []models.Ranking {
	names := make(map[string]string, len(users))
	currentUserID := ""
	for _, u := range users {
		names[u.ID] = u.Name
		if u.IsCurrentUser {
			currentUserID = u.ID
		}
	}

	byCurrency := balancesByCurrency(debts)
	rankings := make([]models.Ranking, 0)
	currentSeen := false
	for currency, balances := range byCurrency {
		for userID, bal := range balances {
			if userID == currentUserID {
				currentSeen = true
			}
			if !opts.IncludeCreditors && bal.IsPositive() {
				continue
			}
			rankings = append(rankings, models.Ranking{
				UserID:     userID,
				UserName:   nameOf(names, userID),
				NetBalance: bal.InexactFloat64(),
				Currency:   currency,
			})
		}
	}
	if currentUserID != "" && !currentSeen {
		rankings = append(rankings, models.Ranking{
			UserID:   currentUserID,
			UserName: nameOf(names, currentUserID),
			Currency: models.DefaultCurrency,
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.NetBalance != b.NetBalance {
			return a.NetBalance < b.NetBalance
		}
		if a.UserName != b.UserName {
			return a.UserName < b.UserName
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.Currency < b.Currency
	})
	return rankings
}

func nameOf(names map[string]string, userID string) string {
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return models.UnknownUserName
}

// GroupSummaries returns each group's standing from userID's point of view,
// in the order the groups are given. Every group gets a row in its own
// currency, followed by one row per other currency userID has outstanding
// debts in, in lexical order.
func GroupSummaries(groups []*models.Group, debts []models.Debt, userID string) []models.GroupSummary {
	perGroup := make(map[string]map[string]decimal.Decimal)
	for _, d := range debts {
		if d.Settled {
			continue
		}
		if perGroup[d.GroupID] == nil {
			perGroup[d.GroupID] = make(map[string]decimal.Decimal)
		}
		amount := decimal.NewFromFloat(d.Amount)
		currency := currencyOf(d)
		switch userID {
		case d.CreditorID:
			perGroup[d.GroupID][currency] = perGroup[d.GroupID][currency].Add(amount)
		case d.DebtorID:
			perGroup[d.GroupID][currency] = perGroup[d.GroupID][currency].Sub(amount)
		}
	}

	summaries := make([]models.GroupSummary, 0, len(groups))
	for _, g := range groups {
		currency := g.Currency
		if currency == "" {
			currency = models.DefaultCurrency
		}
		summaries = append(summaries, groupSummary(g, currency, perGroup[g.ID][currency]))
		for _, other := range sortedCurrencies(perGroup[g.ID]) {
			if other != currency {
				summaries = append(summaries, groupSummary(g, other, perGroup[g.ID][other]))
			}
		}
	}
	return summaries
}

func groupSummary(g *models.Group, currency string, balance decimal.Decimal) models.GroupSummary {
	net := balance.InexactFloat64()
	status := models.StatusOf(net)
	amount := 0.0
	if status != models.StatusSettled {
		amount = balance.Abs().InexactFloat64()
	}
	return models.GroupSummary{
		GroupID:     g.ID,
		GroupName:   g.Name,
		Currency:    currency,
		MemberCount: len(g.Members),
		NetBalance:  net,
		Amount:      amount,
		Status:      status,
	}
}

// BalanceSummaries totals userID's balance across every group, one summary
// per currency in lexical order. Each names the group contributing the
// largest absolute balance in that currency.
func BalanceSummaries(groups []*models.Group, debts []models.Debt, userID string) []models.BalanceSummary {
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	// currency -> group -> balance
	perCurrency := make(map[string]map[string]decimal.Decimal)
	for _, d := range debts {
		if d.Settled || (d.DebtorID != userID && d.CreditorID != userID) {
			continue
		}
		currency := currencyOf(d)
		if perCurrency[currency] == nil {
			perCurrency[currency] = make(map[string]decimal.Decimal)
		}
		amount := decimal.NewFromFloat(d.Amount)
		if d.CreditorID == userID {
			perCurrency[currency][d.GroupID] = perCurrency[currency][d.GroupID].Add(amount)
		} else {
			perCurrency[currency][d.GroupID] = perCurrency[currency][d.GroupID].Sub(amount)
		}
	}

	summaries := make([]models.BalanceSummary, 0, len(perCurrency))
	for _, currency := range sortedCurrencies(perCurrency) {
		total := decimal.Zero
		largestGroup := ""
		largest := decimal.Zero
		groupIDs := sortedCurrencies(perCurrency[currency])
		for _, groupID := range groupIDs {
			bal := perCurrency[currency][groupID]
			total = total.Add(bal)
			if bal.Abs().GreaterThan(largest) {
				largest = bal.Abs()
				largestGroup = groupID
			}
		}
		summary := models.BalanceSummary{
			TotalBalance: total.InexactFloat64(),
			Currency:     currency,
		}
		if largestGroup != "" {
			summary.MostSignificantGroupID = largestGroup
			summary.MostSignificantGroupName = groupNames[largestGroup]
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// DebtSummaries totals what userID owes and is owed, one summary per
// currency in lexical order.
func DebtSummaries(debts []models.Debt, userID string) []models.DebtSummary {
	owed := make(map[string]decimal.Decimal)
	owedTo := make(map[string]decimal.Decimal)
	currencies := make(map[string]bool)
	for _, d := range debts {
		if d.Settled {
			continue
		}
		currency := currencyOf(d)
		amount := decimal.NewFromFloat(d.Amount)
		switch userID {
		case d.DebtorID:
			owed[currency] = owed[currency].Add(amount)
			currencies[currency] = true
		case d.CreditorID:
			owedTo[currency] = owedTo[currency].Add(amount)
			currencies[currency] = true
		}
	}

	summaries := make([]models.DebtSummary, 0, len(currencies))
	for _, currency := range sortedCurrencies(currencies) {
		summaries = append(summaries, models.DebtSummary{
			Currency:    currency,
			TotalOwed:   owed[currency].InexactFloat64(),
			TotalOwedTo: owedTo[currency].InexactFloat64(),
			NetBalance:  owedTo[currency].Sub(owed[currency]).InexactFloat64(),
		})
	}
	return summaries
}

// SpendingFacts aggregates the expenses payerID paid for in [from, to), one
// entry per currency in lexical order. The top category is the one with the
// largest total, ties broken by name.
func SpendingFacts(expenses []*models.Expense, payerID string, from, to time.Time) []models.SpendingFacts {
	type bucket struct {
		total      decimal.Decimal
		count      int
		categories map[string]decimal.Decimal
	}
	filter := models.ExpenseFilter{PayerID: payerID, From: from.UnixMilli(), To: to.UnixMilli()}

	buckets := make(map[string]*bucket)
	for _, e := range expenses {
		if !filter.Match(e) {
			continue
		}
		currency := e.Currency
		if currency == "" {
			currency = models.DefaultCurrency
		}
		b, ok := buckets[currency]
		if !ok {
			b = &bucket{categories: make(map[string]decimal.Decimal)}
			buckets[currency] = b
		}
		amount := decimal.NewFromFloat(e.Amount)
		b.total = b.total.Add(amount)
		b.count++
		b.categories[e.Category] = b.categories[e.Category].Add(amount)
	}

	facts := make([]models.SpendingFacts, 0, len(buckets))
	for _, currency := range sortedCurrencies(buckets) {
		b := buckets[currency]
		top := ""
		topTotal := decimal.Zero
		for _, category := range sortedCurrencies(b.categories) {
			if b.categories[category].GreaterThan(topTotal) {
				top = category
				topTotal = b.categories[category]
			}
		}
		facts = append(facts, models.SpendingFacts{
			Currency:       currency,
			TotalSpent:     b.total.InexactFloat64(),
			ExpenseCount:   b.count,
			AverageExpense: b.total.Div(decimal.NewFromInt(int64(b.count))).Round(centPlaces).InexactFloat64(),
			TopCategory:    top,
		})
	}
	return facts
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeklySpending compares what payerID paid this week (Monday up to and
// including now) with the whole previous week, one entry per currency.
func WeeklySpending(expenses []*models.Expense, payerID string, now time.Time) []models.WeeklySpending {
	thisWeekStart := WeekStart(now)
	lastWeekStart := thisWeekStart.AddDate(0, 0, -7)
	end := now.Add(time.Millisecond)

	thisWeek := SpendingFacts(expenses, payerID, thisWeekStart, end)
	lastWeek := SpendingFacts(expenses, payerID, lastWeekStart, thisWeekStart)

	byCurrency := make(map[string]*models.WeeklySpending)
	for _, f := range thisWeek {
		byCurrency[f.Currency] = &models.WeeklySpending{Currency: f.Currency, ThisWeek: f.TotalSpent}
	}
	for _, f := range lastWeek {
		w, ok := byCurrency[f.Currency]
		if !ok {
			w = &models.WeeklySpending{Currency: f.Currency}
			byCurrency[f.Currency] = w
		}
		w.LastWeek = f.TotalSpent
	}

	result := make([]models.WeeklySpending, 0, len(byCurrency))
	for _, currency := range sortedCurrencies(byCurrency) {
		result = append(result, *byCurrency[currency])
	}
	return result
}
