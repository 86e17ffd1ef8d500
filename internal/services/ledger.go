// Package services holds the application operations behind the HTTP surface:
// role-gated record management and report generation. Authorization lives
// here, not in the presentation layer, so hiding a button is never the only
// thing standing between a read-only user and a mutation.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shopledger/internal/amqp"
	"shopledger/internal/core"
	applog "shopledger/internal/log"
	"shopledger/internal/storage"
)

var (
	// ErrForbidden is returned when the acting role may not perform the
	// requested mutation.
	ErrForbidden = errors.New("operation not permitted for this role")

	// ErrUnknownReference is returned when a journal entry points at a
	// reference row that does not exist.
	ErrUnknownReference = errors.New("referenced record does not exist")
)

// LedgerStore is the persistence surface the ledger needs. *storage.Store
// satisfies it; tests substitute doubles.
type LedgerStore interface {
	ListExpenseItems(ctx context.Context) ([]core.ExpenseItem, error)
	GetExpenseItem(ctx context.Context, id int64) (core.ExpenseItem, error)
	CreateExpenseItem(ctx context.Context, it core.ExpenseItem) (int64, error)
	UpdateExpenseItem(ctx context.Context, it core.ExpenseItem) error
	DeleteExpenseItem(ctx context.Context, id int64) error

	ListWarehouses(ctx context.Context) ([]core.Warehouse, error)
	GetWarehouse(ctx context.Context, id int64) (core.Warehouse, error)
	CreateWarehouse(ctx context.Context, w core.Warehouse) (int64, error)
	UpdateWarehouse(ctx context.Context, w core.Warehouse) error
	DeleteWarehouse(ctx context.Context, id int64) error

	ListSales(ctx context.Context) ([]core.Sale, error)
	GetSale(ctx context.Context, id int64) (core.Sale, error)
	CreateSale(ctx context.Context, sale core.Sale) (int64, error)
	UpdateSale(ctx context.Context, sale core.Sale) error
	DeleteSale(ctx context.Context, id int64) error

	ListCharges(ctx context.Context) ([]core.Charge, error)
	GetCharge(ctx context.Context, id int64) (core.Charge, error)
	CreateCharge(ctx context.Context, charge core.Charge) (int64, error)
	UpdateCharge(ctx context.Context, charge core.Charge) error
	DeleteCharge(ctx context.Context, id int64) error
}

// AuditPublisher emits mutation events. Publishing is best effort: a failed
// publish is logged, never returned to the caller.
type AuditPublisher interface {
	PublishAuditEvent(ctx context.Context, event *amqp.AuditEvent) error
}

// Ledger manages reference tables and journals.
type Ledger struct {
	store     LedgerStore
	publisher AuditPublisher
}

func NewLedger(store LedgerStore, publisher AuditPublisher) *Ledger {
	return &Ledger{store: store, publisher: publisher}
}

func (l *Ledger) ListExpenseItems(ctx context.Context, actor core.User) ([]core.ExpenseItem, error) {
	return l.store.ListExpenseItems(ctx)
}

func (l *Ledger) GetExpenseItem(ctx context.Context, actor core.User, id int64) (core.ExpenseItem, error) {
	return l.store.GetExpenseItem(ctx, id)
}

func (l *Ledger) AddExpenseItem(ctx context.Context, actor core.User, it core.ExpenseItem) (core.ExpenseItem, error) {
	if !actor.Role.CanMutate() {
		return core.ExpenseItem{}, ErrForbidden
	}
	if err := it.Validate(); err != nil {
		return core.ExpenseItem{}, err
	}
	id, err := l.store.CreateExpenseItem(ctx, it)
	if err != nil {
		return core.ExpenseItem{}, fmt.Errorf("add expense item: %w", err)
	}
	it.ID = id
	l.audit(ctx, actor, amqp.ActionAdd, core.KindExpenseItems, id)
	return it, nil
}

func (l *Ledger) EditExpenseItem(ctx context.Context, actor core.User, it core.ExpenseItem) (core.ExpenseItem, error) {
	if !actor.Role.CanMutate() {
		return core.ExpenseItem{}, ErrForbidden
	}
	if err := it.Validate(); err != nil {
		return core.ExpenseItem{}, err
	}
	if _, err := l.store.GetExpenseItem(ctx, it.ID); err != nil {
		return core.ExpenseItem{}, err
	}
	if err := l.store.UpdateExpenseItem(ctx, it); err != nil {
		return core.ExpenseItem{}, fmt.Errorf("edit expense item: %w", err)
	}
	l.audit(ctx, actor, amqp.ActionEdit, core.KindExpenseItems, it.ID)
	return it, nil
}

func (l *Ledger) DeleteExpenseItem(ctx context.Context, actor core.User, id int64) error {
	if !actor.Role.CanMutate() {
		return ErrForbidden
	}
	if err := l.store.DeleteExpenseItem(ctx, id); err != nil {
		return err
	}
	l.audit(ctx, actor, amqp.ActionDelete, core.KindExpenseItems, id)
	return nil
}

func (l *Ledger) ListWarehouses(ctx context.Context, actor core.User) ([]core.Warehouse, error) {
	return l.store.ListWarehouses(ctx)
}

func (l *Ledger) GetWarehouse(ctx context.Context, actor core.User, id int64) (core.Warehouse, error) {
	return l.store.GetWarehouse(ctx, id)
}

func (l *Ledger) AddWarehouse(ctx context.Context, actor core.User, w core.Warehouse) (core.Warehouse, error) {
	if !actor.Role.CanMutate() {
		return core.Warehouse{}, ErrForbidden
	}
	if err := w.Validate(); err != nil {
		return core.Warehouse{}, err
	}
	id, err := l.store.CreateWarehouse(ctx, w)
	if err != nil {
		return core.Warehouse{}, fmt.Errorf("add warehouse: %w", err)
	}
	w.ID = id
	l.audit(ctx, actor, amqp.ActionAdd, core.KindWarehouses, id)
	return w, nil
}

func (l *Ledger) EditWarehouse(ctx context.Context, actor core.User, w core.Warehouse) (core.Warehouse, error) {
	if !actor.Role.CanMutate() {
		return core.Warehouse{}, ErrForbidden
	}
	if err := w.Validate(); err != nil {
		return core.Warehouse{}, err
	}
	if _, err := l.store.GetWarehouse(ctx, w.ID); err != nil {
		return core.Warehouse{}, err
	}
	if err := l.store.UpdateWarehouse(ctx, w); err != nil {
		return core.Warehouse{}, fmt.Errorf("edit warehouse: %w", err)
	}
	l.audit(ctx, actor, amqp.ActionEdit, core.KindWarehouses, w.ID)
	return w, nil
}

func (l *Ledger) DeleteWarehouse(ctx context.Context, actor core.User, id int64) error {
	if !actor.Role.CanMutate() {
		return ErrForbidden
	}
	if err := l.store.DeleteWarehouse(ctx, id); err != nil {
		return err
	}
	l.audit(ctx, actor, amqp.ActionDelete, core.KindWarehouses, id)
	return nil
}

func (l *Ledger) ListSales(ctx context.Context, actor core.User) ([]core.Sale, error) {
	return l.store.ListSales(ctx)
}

func (l *Ledger) GetSale(ctx context.Context, actor core.User, id int64) (core.Sale, error) {
	return l.store.GetSale(ctx, id)
}

func (l *Ledger) AddSale(ctx context.Context, actor core.User, sale core.Sale) (core.Sale, error) {
	if !actor.Role.CanMutate() {
		return core.Sale{}, ErrForbidden
	}
	if err := sale.Validate(); err != nil {
		return core.Sale{}, err
	}
	if err := l.checkWarehouseExists(ctx, sale.WarehouseID); err != nil {
		return core.Sale{}, err
	}
	id, err := l.store.CreateSale(ctx, sale)
	if err != nil {
		return core.Sale{}, fmt.Errorf("add sale: %w", err)
	}
	sale.ID = id
	l.audit(ctx, actor, amqp.ActionAdd, core.KindSales, id)
	return sale, nil
}

func (l *Ledger) EditSale(ctx context.Context, actor core.User, sale core.Sale) (core.Sale, error) {
	if !actor.Role.CanMutate() {
		return core.Sale{}, ErrForbidden
	}
	if err := sale.Validate(); err != nil {
		return core.Sale{}, err
	}
	if _, err := l.store.GetSale(ctx, sale.ID); err != nil {
		return core.Sale{}, err
	}
	if err := l.checkWarehouseExists(ctx, sale.WarehouseID); err != nil {
		return core.Sale{}, err
	}
	if err := l.store.UpdateSale(ctx, sale); err != nil {
		return core.Sale{}, fmt.Errorf("edit sale: %w", err)
	}
	l.audit(ctx, actor, amqp.ActionEdit, core.KindSales, sale.ID)
	return sale, nil
}

func (l *Ledger) DeleteSale(ctx context.Context, actor core.User, id int64) error {
	if !actor.Role.CanMutate() {
		return ErrForbidden
	}
	if err := l.store.DeleteSale(ctx, id); err != nil {
		return err
	}
	l.audit(ctx, actor, amqp.ActionDelete, core.KindSales, id)
	return nil
}

func (l *Ledger) ListCharges(ctx context.Context, actor core.User) ([]core.Charge, error) {
	return l.store.ListCharges(ctx)
}

func (l *Ledger) GetCharge(ctx context.Context, actor core.User, id int64) (core.Charge, error) {
	return l.store.GetCharge(ctx, id)
}

func (l *Ledger) AddCharge(ctx context.Context, actor core.User, charge core.Charge) (core.Charge, error) {
	if !actor.Role.CanMutate() {
		return core.Charge{}, ErrForbidden
	}
	if err := charge.Validate(); err != nil {
		return core.Charge{}, err
	}
	if err := l.checkExpenseItemExists(ctx, charge.ExpenseItemID); err != nil {
		return core.Charge{}, err
	}
	id, err := l.store.CreateCharge(ctx, charge)
	if err != nil {
		return core.Charge{}, fmt.Errorf("add charge: %w", err)
	}
	charge.ID = id
	l.audit(ctx, actor, amqp.ActionAdd, core.KindCharges, id)
	return charge, nil
}

func (l *Ledger) EditCharge(ctx context.Context, actor core.User, charge core.Charge) (core.Charge, error) {
	if !actor.Role.CanMutate() {
		return core.Charge{}, ErrForbidden
	}
	if err := charge.Validate(); err != nil {
		return core.Charge{}, err
	}
	if _, err := l.store.GetCharge(ctx, charge.ID); err != nil {
		return core.Charge{}, err
	}
	if err := l.checkExpenseItemExists(ctx, charge.ExpenseItemID); err != nil {
		return core.Charge{}, err
	}
	if err := l.store.UpdateCharge(ctx, charge); err != nil {
		return core.Charge{}, fmt.Errorf("edit charge: %w", err)
	}
	l.audit(ctx, actor, amqp.ActionEdit, core.KindCharges, charge.ID)
	return charge, nil
}

func (l *Ledger) DeleteCharge(ctx context.Context, actor core.User, id int64) error {
	if !actor.Role.CanMutate() {
		return ErrForbidden
	}
	if err := l.store.DeleteCharge(ctx, id); err != nil {
		return err
	}
	l.audit(ctx, actor, amqp.ActionDelete, core.KindCharges, id)
	return nil
}

func (l *Ledger) checkWarehouseExists(ctx context.Context, id int64) error {
	_, err := l.store.GetWarehouse(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("warehouse %d: %w", id, ErrUnknownReference)
	}
	return err
}

func (l *Ledger) checkExpenseItemExists(ctx context.Context, id int64) error {
	_, err := l.store.GetExpenseItem(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("expense item %d: %w", id, ErrUnknownReference)
	}
	return err
}

func (l *Ledger) audit(ctx context.Context, actor core.User, action string, kind core.EntityKind, recordID int64) {
	if l.publisher == nil {
		return
	}
	event := amqp.NewAuditEvent(actor.Username, action, kind.String(), recordID)
	if err := l.publisher.PublishAuditEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish audit event",
			applog.FieldError, err,
			"action", action,
			applog.FieldEntity, kind.String(),
			applog.FieldRecordID, recordID)
	}
}
