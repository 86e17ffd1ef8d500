package storage

import (
	"context"
	"database/sql"
	"errors"

	"shopledger/internal/core"
)

// Reference tables are listed in insertion order (ascending id).

func (s *Store) ListExpenseItems(ctx context.Context) ([]core.ExpenseItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM expense_items ORDER BY id`)
	if err != nil {
		return nil, &QueryError{Op: "list expense items", Err: err}
	}
	defer rows.Close()

	items := []core.ExpenseItem{}
	for rows.Next() {
		var it core.ExpenseItem
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, &QueryError{Op: "scan expense item", Err: err}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "list expense items", Err: err}
	}
	return items, nil
}

func (s *Store) GetExpenseItem(ctx context.Context, id int64) (core.ExpenseItem, error) {
	var it core.ExpenseItem
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, name FROM expense_items WHERE id = ?`), id,
	).Scan(&it.ID, &it.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseItem{}, ErrNotFound
	}
	if err != nil {
		return core.ExpenseItem{}, &QueryError{Op: "get expense item", Err: err}
	}
	return it, nil
}

func (s *Store) CreateExpenseItem(ctx context.Context, it core.ExpenseItem) (int64, error) {
	return s.insertID(ctx, "create expense item",
		`INSERT INTO expense_items (name) VALUES (?)`, it.Name)
}

func (s *Store) UpdateExpenseItem(ctx context.Context, it core.ExpenseItem) error {
	return s.execAffecting(ctx, "update expense item",
		`UPDATE expense_items SET name = ? WHERE id = ?`, it.Name, it.ID)
}

func (s *Store) DeleteExpenseItem(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete expense item",
		`DELETE FROM expense_items WHERE id = ?`, id)
}

func (s *Store) ListWarehouses(ctx context.Context) ([]core.Warehouse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, quantity, amount FROM warehouses ORDER BY id`)
	if err != nil {
		return nil, &QueryError{Op: "list warehouses", Err: err}
	}
	defer rows.Close()

	items := []core.Warehouse{}
	for rows.Next() {
		var w core.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Quantity, &w.Amount); err != nil {
			return nil, &QueryError{Op: "scan warehouse", Err: err}
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "list warehouses", Err: err}
	}
	return items, nil
}

func (s *Store) GetWarehouse(ctx context.Context, id int64) (core.Warehouse, error) {
	var w core.Warehouse
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, name, quantity, amount FROM warehouses WHERE id = ?`), id,
	).Scan(&w.ID, &w.Name, &w.Quantity, &w.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Warehouse{}, ErrNotFound
	}
	if err != nil {
		return core.Warehouse{}, &QueryError{Op: "get warehouse", Err: err}
	}
	return w, nil
}

func (s *Store) CreateWarehouse(ctx context.Context, w core.Warehouse) (int64, error) {
	return s.insertID(ctx, "create warehouse",
		`INSERT INTO warehouses (name, quantity, amount) VALUES (?, ?, ?)`,
		w.Name, w.Quantity, w.Amount.String())
}

func (s *Store) UpdateWarehouse(ctx context.Context, w core.Warehouse) error {
	return s.execAffecting(ctx, "update warehouse",
		`UPDATE warehouses SET name = ?, quantity = ?, amount = ? WHERE id = ?`,
		w.Name, w.Quantity, w.Amount.String(), w.ID)
}

func (s *Store) DeleteWarehouse(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete warehouse",
		`DELETE FROM warehouses WHERE id = ?`, id)
}
