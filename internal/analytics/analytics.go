// Package analytics holds the derived-view computations: stateless
// aggregations over the collection mirrors. Nothing here talks to the
// network or holds state.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizdesk/backend/internal/entity"
)

// CountBy counts items matching the predicate.
func CountBy[T any](items []T, pred func(T) bool) int {
	n := 0

	for _, item := range items {
		if pred(item) {
			n++
		}
	}

	return n
}

// SumBy adds up the values extracted from items matching the predicate.
func SumBy[T any](items []T, pred func(T) bool, value func(T) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero

	for _, item := range items {
		if pred(item) {
			sum = sum.Add(value(item))
		}
	}

	return sum
}

// Summary is the dashboard headline view.
type Summary struct {
	Clients        int             `json:"clients"`
	ActiveClients  int             `json:"activeClients"`
	Projects       int             `json:"projects"`
	ActiveProjects int             `json:"activeProjects"`
	OpenDeals      int             `json:"openDeals"`
	PipelineValue  decimal.Decimal `json:"pipelineValue"`
	OpenTasks      int             `json:"openTasks"`
	MonthIncome    decimal.Decimal `json:"monthIncome"`
	MonthExpenses  decimal.Decimal `json:"monthExpenses"`
	MonthNet       decimal.Decimal `json:"monthNet"`
	LowStockItems  int             `json:"lowStockItems"`
}

func Dashboard(
	now time.Time,
	clients []entity.Client,
	projects []entity.Project,
	deals []entity.Deal,
	tasks []entity.Task,
	transactions []entity.Transaction,
	inventory []entity.InventoryItem,
) Summary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	inMonth := func(t entity.Transaction) bool {
		return !t.OccurredOn.Before(monthStart) && t.OccurredOn.Before(monthStart.AddDate(0, 1, 0))
	}
	amount := func(t entity.Transaction) decimal.Decimal { return t.Amount }

	income := SumBy(transactions, func(t entity.Transaction) bool {
		return inMonth(t) && t.Kind == entity.TransactionKindIncome
	}, amount)
	expenses := SumBy(transactions, func(t entity.Transaction) bool {
		return inMonth(t) && t.Kind == entity.TransactionKindExpense
	}, amount)

	return Summary{
		Clients: len(clients),
		ActiveClients: CountBy(clients, func(c entity.Client) bool {
			return c.Status == entity.ClientStatusActive
		}),
		Projects: len(projects),
		ActiveProjects: CountBy(projects, func(p entity.Project) bool {
			return p.Status == entity.ProjectStatusActive
		}),
		OpenDeals:     CountBy(deals, dealOpen),
		PipelineValue: PipelineValue(deals),
		OpenTasks: CountBy(tasks, func(t entity.Task) bool {
			return t.Status != entity.TaskStatusCompleted
		}),
		MonthIncome:   income,
		MonthExpenses: expenses,
		MonthNet:      income.Sub(expenses),
		LowStockItems: len(LowStock(inventory)),
	}
}

func dealOpen(d entity.Deal) bool {
	return d.Stage != entity.DealStageWon && d.Stage != entity.DealStageLost
}

// PipelineValue is the total value of deals still in play.
func PipelineValue(deals []entity.Deal) decimal.Decimal {
	return SumBy(deals, dealOpen, func(d entity.Deal) decimal.Decimal { return d.Value })
}

// LowStock returns the items at or below their reorder level, preserving
// collection order.
func LowStock(items []entity.InventoryItem) []entity.InventoryItem {
	low := make([]entity.InventoryItem, 0)

	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}

	return low
}

// MonthFlow is one month's cash-flow bucket.
type MonthFlow struct {
	Month    string          `json:"month"` // YYYY-MM
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// MonthlyFlow buckets transactions by occurrence month over the trailing
// window ending at now, oldest month first. Months without transactions
// appear with zero amounts.
func MonthlyFlow(transactions []entity.Transaction, months int, now time.Time) []MonthFlow {
	if months <= 0 {
		return nil
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	out := make([]MonthFlow, months)
	index := make(map[string]int, months)

	for i := range out {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthFlow{Month: key, Income: decimal.Zero, Expenses: decimal.Zero, Net: decimal.Zero}
		index[key] = i
	}

	for _, t := range transactions {
		i, ok := index[t.OccurredOn.Format("2006-01")]
		if !ok {
			continue
		}

		switch t.Kind {
		case entity.TransactionKindIncome:
			out[i].Income = out[i].Income.Add(t.Amount)
		case entity.TransactionKindExpense:
			out[i].Expenses = out[i].Expenses.Add(t.Amount)
		}
	}

	for i := range out {
		out[i].Net = out[i].Income.Sub(out[i].Expenses)
	}

	return out
}
