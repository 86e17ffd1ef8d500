package storage

import (
	"context"
	"database/sql"
	"errors"

	"shopledger/internal/core"
)

// Journals are listed newest first. Listings join the referenced reference
// row so callers get a human-readable name alongside the foreign key.

func (s *Store) ListSales(ctx context.Context) ([]core.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.warehouse_id, w.name, s.sale_date, s.quantity, s.amount
		FROM sales s
		JOIN warehouses w ON s.warehouse_id = w.id
		ORDER BY s.sale_date DESC, s.id DESC`)
	if err != nil {
		return nil, &QueryError{Op: "list sales", Err: err}
	}
	defer rows.Close()

	sales := []core.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "list sales", Err: err}
	}
	return sales, nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (core.Sale, error) {
	var (
		sale    core.Sale
		dateStr string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT s.id, s.warehouse_id, w.name, s.sale_date, s.quantity, s.amount
		FROM sales s
		JOIN warehouses w ON s.warehouse_id = w.id
		WHERE s.id = ?`), id,
	).Scan(&sale.ID, &sale.WarehouseID, &sale.WarehouseName, &dateStr, &sale.Quantity, &sale.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Sale{}, ErrNotFound
	}
	if err != nil {
		return core.Sale{}, &QueryError{Op: "get sale", Err: err}
	}
	sale.SaleDate, err = parseTime(dateStr)
	if err != nil {
		return core.Sale{}, &QueryError{Op: "get sale", Err: err}
	}
	return sale, nil
}

func (s *Store) CreateSale(ctx context.Context, sale core.Sale) (int64, error) {
	return s.insertID(ctx, "create sale",
		`INSERT INTO sales (warehouse_id, sale_date, quantity, amount) VALUES (?, ?, ?, ?)`,
		sale.WarehouseID, formatTimestamp(sale.SaleDate), sale.Quantity, sale.Amount.String())
}

func (s *Store) UpdateSale(ctx context.Context, sale core.Sale) error {
	return s.execAffecting(ctx, "update sale",
		`UPDATE sales SET warehouse_id = ?, sale_date = ?, quantity = ?, amount = ? WHERE id = ?`,
		sale.WarehouseID, formatTimestamp(sale.SaleDate), sale.Quantity, sale.Amount.String(), sale.ID)
}

func (s *Store) DeleteSale(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete sale", `DELETE FROM sales WHERE id = ?`, id)
}

func (s *Store) ListCharges(ctx context.Context) ([]core.Charge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.expense_item_id, e.name, c.charge_date, c.amount
		FROM charges c
		JOIN expense_items e ON c.expense_item_id = e.id
		ORDER BY c.charge_date DESC, c.id DESC`)
	if err != nil {
		return nil, &QueryError{Op: "list charges", Err: err}
	}
	defer rows.Close()

	charges := []core.Charge{}
	for rows.Next() {
		charge, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "list charges", Err: err}
	}
	return charges, nil
}

func (s *Store) GetCharge(ctx context.Context, id int64) (core.Charge, error) {
	var (
		charge  core.Charge
		dateStr string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT c.id, c.expense_item_id, e.name, c.charge_date, c.amount
		FROM charges c
		JOIN expense_items e ON c.expense_item_id = e.id
		WHERE c.id = ?`), id,
	).Scan(&charge.ID, &charge.ExpenseItemID, &charge.ExpenseItemName, &dateStr, &charge.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Charge{}, ErrNotFound
	}
	if err != nil {
		return core.Charge{}, &QueryError{Op: "get charge", Err: err}
	}
	charge.ChargeDate, err = parseTime(dateStr)
	if err != nil {
		return core.Charge{}, &QueryError{Op: "get charge", Err: err}
	}
	return charge, nil
}

func (s *Store) CreateCharge(ctx context.Context, charge core.Charge) (int64, error) {
	return s.insertID(ctx, "create charge",
		`INSERT INTO charges (expense_item_id, charge_date, amount) VALUES (?, ?, ?)`,
		charge.ExpenseItemID, formatDate(charge.ChargeDate), charge.Amount.String())
}

func (s *Store) UpdateCharge(ctx context.Context, charge core.Charge) error {
	return s.execAffecting(ctx, "update charge",
		`UPDATE charges SET expense_item_id = ?, charge_date = ?, amount = ? WHERE id = ?`,
		charge.ExpenseItemID, formatDate(charge.ChargeDate), charge.Amount.String(), charge.ID)
}

func (s *Store) DeleteCharge(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, "delete charge", `DELETE FROM charges WHERE id = ?`, id)
}

func scanSale(rows *sql.Rows) (core.Sale, error) {
	var (
		sale    core.Sale
		dateStr string
	)
	if err := rows.Scan(&sale.ID, &sale.WarehouseID, &sale.WarehouseName, &dateStr, &sale.Quantity, &sale.Amount); err != nil {
		return core.Sale{}, &QueryError{Op: "scan sale", Err: err}
	}
	date, err := parseTime(dateStr)
	if err != nil {
		return core.Sale{}, &QueryError{Op: "scan sale", Err: err}
	}
	sale.SaleDate = date
	return sale, nil
}

func scanCharge(rows *sql.Rows) (core.Charge, error) {
	var (
		charge  core.Charge
		dateStr string
	)
	if err := rows.Scan(&charge.ID, &charge.ExpenseItemID, &charge.ExpenseItemName, &dateStr, &charge.Amount); err != nil {
		return core.Charge{}, &QueryError{Op: "scan charge", Err: err}
	}
	date, err := parseTime(dateStr)
	if err != nil {
		return core.Charge{}, &QueryError{Op: "scan charge", Err: err}
	}
	charge.ChargeDate = date
	return charge, nil
}
