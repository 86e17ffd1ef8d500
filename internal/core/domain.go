package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

const (
	KindExpenseItems EntityKind = "expense_items"
	KindWarehouses   EntityKind = "warehouses"
	KindSales        EntityKind = "sales"
	KindCharges      EntityKind = "charges"
)

type (
	// Role is the access tier of an authenticated user. Only admins may
	// mutate reference tables and journals.
	Role string

	// EntityKind identifies one of the four managed tables.
	EntityKind string

	// User is a stored credential record. Users are provisioned externally
	// and read-only from the application's perspective.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
		Role         Role
	}

	// ExpenseItem is a reference row naming an expense category.
	ExpenseItem struct {
		ID   int64
		Name string
	}

	// Warehouse is a reference row for a stocked product with its unit price.
	Warehouse struct {
		ID       int64
		Name     string
		Quantity int64
		Amount   decimal.Decimal
	}

	// Sale is a journal row recording quantity sold at the unit price in
	// effect at sale time. WarehouseName is filled only on joined listings.
	Sale struct {
		ID            int64
		WarehouseID   int64
		WarehouseName string
		SaleDate      time.Time
		Quantity      int64
		Amount        decimal.Decimal
	}

	// Charge is a journal row recording a single expense.
	// ExpenseItemName is filled only on joined listings.
	Charge struct {
		ID              int64
		ExpenseItemID   int64
		ExpenseItemName string
		ChargeDate      time.Time
		Amount          decimal.Decimal
	}
)

var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrZeroQuantity     = errors.New("quantity must be positive")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrZeroAmount       = errors.New("amount must be positive")
	ErrMissingReference = errors.New("referenced record is required")
	ErrZeroDate         = errors.New("date is required")
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanMutate reports whether the role may add, edit or delete records.
func (r Role) CanMutate() bool {
	return r == RoleAdmin
}

func (k EntityKind) IsValid() bool {
	switch k {
	case KindExpenseItems, KindWarehouses, KindSales, KindCharges:
		return true
	default:
		return false
	}
}

// IsJournal reports whether the kind is a transactional journal as opposed
// to a reference table.
func (k EntityKind) IsJournal() bool {
	return k == KindSales || k == KindCharges
}

func (k EntityKind) String() string {
	return string(k)
}

func (e ExpenseItem) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (w Warehouse) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if w.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if w.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (s Sale) Validate() error {
	if s.WarehouseID <= 0 {
		return ErrMissingReference
	}
	if s.SaleDate.IsZero() {
		return ErrZeroDate
	}
	if s.Quantity <= 0 {
		return ErrZeroQuantity
	}
	if s.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Revenue returns quantity multiplied by unit price in decimal arithmetic.
func (s Sale) Revenue() decimal.Decimal {
	return s.Amount.Mul(decimal.NewFromInt(s.Quantity))
}

func (c Charge) Validate() error {
	if c.ExpenseItemID <= 0 {
		return ErrMissingReference
	}
	if c.ChargeDate.IsZero() {
		return ErrZeroDate
	}
	if c.Amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return nil
}
