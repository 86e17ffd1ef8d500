package storage

import (
	"context"
	"time"

	"shopledger/internal/core"
)

// Report row sources. Aggregation happens in the service layer with decimal
// arithmetic; the store only narrows rows to the requested half-open
// interval [from, to).

func (s *Store) SalesBetween(ctx context.Context, from, to time.Time) ([]core.Sale, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT s.id, s.warehouse_id, w.name, s.sale_date, s.quantity, s.amount
		FROM sales s
		JOIN warehouses w ON s.warehouse_id = w.id
		WHERE s.sale_date >= ? AND s.sale_date < ?
		ORDER BY s.sale_date DESC, s.id DESC`),
		formatTimestamp(from), formatTimestamp(to))
	if err != nil {
		return nil, &QueryError{Op: "sales between", Err: err}
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
		return nil, &QueryError{Op: "sales between", Err: err}
	}
	return sales, nil
}

func (s *Store) ChargesBetween(ctx context.Context, from, to time.Time) ([]core.Charge, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT c.id, c.expense_item_id, e.name, c.charge_date, c.amount
		FROM charges c
		JOIN expense_items e ON c.expense_item_id = e.id
		WHERE c.charge_date >= ? AND c.charge_date < ?
		ORDER BY c.charge_date DESC, c.id DESC`),
		formatDate(from), formatDate(to))
	if err != nil {
		return nil, &QueryError{Op: "charges between", Err: err}
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
		return nil, &QueryError{Op: "charges between", Err: err}
	}
	return charges, nil
}
