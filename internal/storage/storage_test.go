package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shopledger/internal/config"
	"shopledger/internal/core"
)

// Tests run against a throwaway sqlite file; the repositories share SQL
// text across both dialects, so sqlite coverage exercises the statements
// postgres runs too.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
	}
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUserLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, core.User{
		Username:     "olga",
		PasswordHash: "sha256$aa$bb",
		Role:         core.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if id == 0 {
		t.Fatal("expected generated id")
	}

	user, err := store.GetUser(ctx, "olga")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.PasswordHash != "sha256$aa$bb" || user.Role != core.RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := store.GetUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user: expected ErrNotFound, got %v", err)
	}
}

func TestExpenseItemCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	items, err := store.ListExpenseItems(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("empty table must list as empty slice, got %#v", items)
	}

	first, err := store.CreateExpenseItem(ctx, core.ExpenseItem{Name: "Rent"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := store.CreateExpenseItem(ctx, core.ExpenseItem{Name: "Utilities"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err = store.ListExpenseItems(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != first || items[1].ID != second {
		t.Fatalf("expected insertion order, got %+v", items)
	}

	if err := store.UpdateExpenseItem(ctx, core.ExpenseItem{ID: first, Name: "Lease"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.GetExpenseItem(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Lease" {
		t.Fatalf("update did not stick: %+v", got)
	}

	if err := store.DeleteExpenseItem(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetExpenseItem(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: expected ErrNotFound, got %v", err)
	}

	if err := store.UpdateExpenseItem(ctx, core.ExpenseItem{ID: 999, Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteExpenseItem(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: expected ErrNotFound, got %v", err)
	}
}

func TestWarehouseAmountPrecision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateWarehouse(ctx, core.Warehouse{Name: "Bread", Quantity: 10, Amount: dec("2.50")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetWarehouse(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// amounts survive the round trip without floating-point drift
	if !got.Amount.Equal(dec("2.50")) {
		t.Fatalf("expected amount 2.50, got %q", got.Amount.String())
	}
	if got.Quantity != 10 || got.Name != "Bread" {
		t.Fatalf("unexpected warehouse: %+v", got)
	}
}

func TestSaleJournal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	whID, err := store.CreateWarehouse(ctx, core.Warehouse{Name: "Bread", Quantity: 10, Amount: dec("2.50")})
	if err != nil {
		t.Fatalf("create warehouse: %v", err)
	}

	older := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	olderID, err := store.CreateSale(ctx, core.Sale{WarehouseID: whID, SaleDate: older, Quantity: 1, Amount: dec("2.50")})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	newerID, err := store.CreateSale(ctx, core.Sale{WarehouseID: whID, SaleDate: newer, Quantity: 3, Amount: dec("2.50")})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	sales, err := store.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].ID != newerID || sales[1].ID != olderID {
		t.Fatalf("expected newest first, got %+v", sales)
	}
	if sales[0].WarehouseName != "Bread" {
		t.Fatalf("listing must join the warehouse name, got %q", sales[0].WarehouseName)
	}
	if !sales[0].SaleDate.Equal(newer) {
		t.Fatalf("expected date %s, got %s", newer, sales[0].SaleDate)
	}

	got, err := store.GetSale(ctx, olderID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	got.Quantity = 5
	if err := store.UpdateSale(ctx, got); err != nil {
		t.Fatalf("update sale: %v", err)
	}
	got, err = store.GetSale(ctx, olderID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if got.Quantity != 5 {
		t.Fatalf("update did not stick: %+v", got)
	}

	if err := store.DeleteSale(ctx, olderID); err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if _, err := store.GetSale(ctx, olderID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted sale: expected ErrNotFound, got %v", err)
	}
}

func TestChargeJournal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	itemID, err := store.CreateExpenseItem(ctx, core.ExpenseItem{Name: "Rent"})
	if err != nil {
		t.Fatalf("create expense item: %v", err)
	}

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	chargeID, err := store.CreateCharge(ctx, core.Charge{ExpenseItemID: itemID, ChargeDate: date, Amount: dec("100.00")})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	charges, err := store.ListCharges(ctx)
	if err != nil {
		t.Fatalf("list charges: %v", err)
	}
	if len(charges) != 1 || charges[0].ID != chargeID {
		t.Fatalf("unexpected charges: %+v", charges)
	}
	if charges[0].ExpenseItemName != "Rent" {
		t.Fatalf("listing must join the expense item name, got %q", charges[0].ExpenseItemName)
	}
	if !charges[0].ChargeDate.Equal(date) {
		t.Fatalf("expected date %s, got %s", date, charges[0].ChargeDate)
	}
	if !charges[0].Amount.Equal(dec("100.00")) {
		t.Fatalf("expected amount 100.00, got %q", charges[0].Amount.String())
	}
}

func TestSalesBetweenHalfOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	whID, err := store.CreateWarehouse(ctx, core.Warehouse{Name: "Bread", Quantity: 10, Amount: dec("2.50")})
	if err != nil {
		t.Fatalf("create warehouse: %v", err)
	}

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	dates := []struct {
		date   time.Time
		inside bool
	}{
		{time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC), false},
		{from, true},
		{time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), true},
		{to, false},
	}
	for _, d := range dates {
		if _, err := store.CreateSale(ctx, core.Sale{WarehouseID: whID, SaleDate: d.date, Quantity: 1, Amount: dec("1")}); err != nil {
			t.Fatalf("create sale: %v", err)
		}
	}

	sales, err := store.SalesBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("sales between: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales in [from, to), got %d", len(sales))
	}
	for _, sale := range sales {
		if sale.SaleDate.Before(from) || !sale.SaleDate.Before(to) {
			t.Fatalf("sale %s outside the interval", sale.SaleDate)
		}
	}
}

func TestChargesBetween(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	itemID, err := store.CreateExpenseItem(ctx, core.ExpenseItem{Name: "Rent"})
	if err != nil {
		t.Fatalf("create expense item: %v", err)
	}

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	for _, date := range []time.Time{
		time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
	} {
		if _, err := store.CreateCharge(ctx, core.Charge{ExpenseItemID: itemID, ChargeDate: date, Amount: dec("10")}); err != nil {
			t.Fatalf("create charge: %v", err)
		}
	}

	charges, err := store.ChargesBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("charges between: %v", err)
	}
	if len(charges) != 1 {
		t.Fatalf("expected 1 charge in the month, got %d", len(charges))
	}
}

func TestAuditLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.InsertAuditEntry(ctx, AuditEntry{
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
			Actor:      "olga",
			Action:     "add",
			Entity:     "warehouses",
			RecordID:   int64(i + 1),
		})
		if err != nil {
			t.Fatalf("insert audit entry: %v", err)
		}
	}

	entries, err := store.ListAuditEntries(ctx, 2)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(entries))
	}
	if entries[0].RecordID != 3 || entries[1].RecordID != 2 {
		t.Fatalf("expected newest first, got %+v", entries)
	}
	if entries[0].Actor != "olga" || entries[0].Entity != "warehouses" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}
