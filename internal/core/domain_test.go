package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRoleIsValid(t *testing.T) {
	if !RoleAdmin.IsValid() || !RoleUser.IsValid() {
		t.Fatal("admin and user must be valid roles")
	}
	if Role("root").IsValid() {
		t.Fatal("unknown role must be invalid")
	}
	if !RoleAdmin.CanMutate() {
		t.Fatal("admin must be allowed to mutate")
	}
	if RoleUser.CanMutate() {
		t.Fatal("user must not be allowed to mutate")
	}
}

func TestEntityKind(t *testing.T) {
	for _, k := range []EntityKind{KindExpenseItems, KindWarehouses, KindSales, KindCharges} {
		if !k.IsValid() {
			t.Fatalf("%s must be valid", k)
		}
	}
	if EntityKind("orders").IsValid() {
		t.Fatal("unknown kind must be invalid")
	}
	if KindExpenseItems.IsJournal() || KindWarehouses.IsJournal() {
		t.Fatal("reference tables are not journals")
	}
	if !KindSales.IsJournal() || !KindCharges.IsJournal() {
		t.Fatal("sales and charges are journals")
	}
}

func TestExpenseItemValidate(t *testing.T) {
	if err := (ExpenseItem{Name: "Rent"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (ExpenseItem{Name: "  "}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestWarehouseValidate(t *testing.T) {
	good := Warehouse{Name: "Bread", Quantity: 10, Amount: decimal.RequireFromString("2.50")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		w    Warehouse
		want error
	}{
		{Warehouse{Name: "", Quantity: 1, Amount: decimal.NewFromInt(1)}, ErrEmptyName},
		{Warehouse{Name: "x", Quantity: -1, Amount: decimal.NewFromInt(1)}, ErrNegativeQuantity},
		{Warehouse{Name: "x", Quantity: 1, Amount: decimal.NewFromInt(-1)}, ErrNegativeAmount},
	}
	for i, tc := range cases {
		if err := tc.w.Validate(); err != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}

	// zero quantity and zero price are valid for a reference row
	if err := (Warehouse{Name: "x"}).Validate(); err != nil {
		t.Fatalf("zero quantity/amount should be valid, got %v", err)
	}
}

func TestSaleValidate(t *testing.T) {
	date := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	good := Sale{WarehouseID: 1, SaleDate: date, Quantity: 3, Amount: decimal.RequireFromString("2.50")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		s    Sale
		want error
	}{
		{Sale{SaleDate: date, Quantity: 1, Amount: decimal.NewFromInt(1)}, ErrMissingReference},
		{Sale{WarehouseID: 1, Quantity: 1, Amount: decimal.NewFromInt(1)}, ErrZeroDate},
		{Sale{WarehouseID: 1, SaleDate: date, Quantity: 0, Amount: decimal.NewFromInt(1)}, ErrZeroQuantity},
		{Sale{WarehouseID: 1, SaleDate: date, Quantity: 1, Amount: decimal.NewFromInt(-1)}, ErrNegativeAmount},
	}
	for i, tc := range cases {
		if err := tc.s.Validate(); err != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestSaleRevenue(t *testing.T) {
	s := Sale{Quantity: 3, Amount: decimal.RequireFromString("2.50")}
	if !s.Revenue().Equal(decimal.RequireFromString("7.50")) {
		t.Fatalf("expected 7.50, got %s", s.Revenue())
	}
}

func TestChargeValidate(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	good := Charge{ExpenseItemID: 1, ChargeDate: date, Amount: decimal.NewFromInt(100)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		c    Charge
		want error
	}{
		{Charge{ChargeDate: date, Amount: decimal.NewFromInt(1)}, ErrMissingReference},
		{Charge{ExpenseItemID: 1, Amount: decimal.NewFromInt(1)}, ErrZeroDate},
		{Charge{ExpenseItemID: 1, ChargeDate: date, Amount: decimal.Zero}, ErrZeroAmount},
		{Charge{ExpenseItemID: 1, ChargeDate: date, Amount: decimal.NewFromInt(-5)}, ErrZeroAmount},
	}
	for i, tc := range cases {
		if err := tc.c.Validate(); err != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" 7.50 ", "7.5", true},
		{"0", "0", true},
		{"", "", false},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		d, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: expected ok, got %v", tc.in, err)
			}
			if !d.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("%q: expected %s, got %s", tc.in, tc.want, d)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}
