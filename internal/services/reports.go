package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"shopledger/internal/core"
)

// Report labels and titles. Label order in the profit report is part of the
// output contract.
const (
	TitleMonthlyProfit = "Monthly profit"
	TitleTopItems      = "Top revenue items"

	LabelRevenue  = "revenue"
	LabelExpenses = "expenses"
	LabelProfit   = "profit"
)

const topItemsLimit = 5

// ReportStore is the row source the report generators need.
type ReportStore interface {
	SalesBetween(ctx context.Context, from, to time.Time) ([]core.Sale, error)
	ChargesBetween(ctx context.Context, from, to time.Time) ([]core.Charge, error)
	ListSales(ctx context.Context) ([]core.Sale, error)
}

// Reports generates the canned aggregate reports. All sums are decimal;
// the two profit components come from independent row fetches so neither
// can inflate the other.
type Reports struct {
	store ReportStore
	now   func() time.Time
}

func NewReports(store ReportStore) *Reports {
	return &Reports{store: store, now: time.Now}
}

// MonthlyProfit computes revenue, expenses and profit for the current
// calendar month. Charges are confined to the same month as sales.
func (r *Reports) MonthlyProfit(ctx context.Context) (core.Report, error) {
	from, to := monthBounds(r.now().UTC())

	sales, err := r.store.SalesBetween(ctx, from, to)
	if err != nil {
		return core.Report{}, fmt.Errorf("load month sales: %w", err)
	}
	charges, err := r.store.ChargesBetween(ctx, from, to)
	if err != nil {
		return core.Report{}, fmt.Errorf("load month charges: %w", err)
	}

	revenue := decimal.Zero
	for _, sale := range sales {
		revenue = revenue.Add(sale.Revenue())
	}
	expenses := decimal.Zero
	for _, charge := range charges {
		expenses = expenses.Add(charge.Amount)
	}

	return core.Report{
		Title: TitleMonthlyProfit,
		Rows: []core.ReportRow{
			{Label: LabelRevenue, Value: revenue},
			{Label: LabelExpenses, Value: expenses},
			{Label: LabelProfit, Value: revenue.Sub(expenses)},
		},
	}, nil
}

// TopItems ranks warehouses by total revenue across all recorded sales and
// returns at most five rows, ordered by revenue descending with ties broken
// by ascending warehouse id.
func (r *Reports) TopItems(ctx context.Context) (core.Report, error) {
	sales, err := r.store.ListSales(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("load sales: %w", err)
	}

	type itemTotal struct {
		id      int64
		name    string
		revenue decimal.Decimal
	}

	totals := map[int64]*itemTotal{}
	for _, sale := range sales {
		t, ok := totals[sale.WarehouseID]
		if !ok {
			t = &itemTotal{id: sale.WarehouseID, name: sale.WarehouseName, revenue: decimal.Zero}
			totals[sale.WarehouseID] = t
		}
		t.revenue = t.revenue.Add(sale.Revenue())
	}

	ranked := make([]*itemTotal, 0, len(totals))
	for _, t := range totals {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		cmp := ranked[i].revenue.Cmp(ranked[j].revenue)
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > topItemsLimit {
		ranked = ranked[:topItemsLimit]
	}

	report := core.Report{Title: TitleTopItems, Rows: []core.ReportRow{}}
	for _, t := range ranked {
		report.Rows = append(report.Rows, core.ReportRow{Label: t.name, Value: t.revenue})
	}
	return report, nil
}

// monthBounds returns the half-open interval covering t's calendar month.
func monthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
