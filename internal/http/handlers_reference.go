package http

import (
	"net/http"

	"shopledger/internal/core"
)

type expenseItemView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type warehouseView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Amount   string `json:"amount"`
}

type expenseItemRequest struct {
	Name string `json:"name"`
}

// warehouseRequest carries the amount as a string so clients can submit
// either decimal separator without going through float64.
type warehouseRequest struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Amount   string `json:"amount"`
}

func viewExpenseItem(it core.ExpenseItem) expenseItemView {
	return expenseItemView{ID: it.ID, Name: it.Name}
}

// Money renders with two fractional digits; Decimal.String would drop the
// trailing zero of amounts like 2.50.
func viewWarehouse(w core.Warehouse) warehouseView {
	return warehouseView{ID: w.ID, Name: w.Name, Quantity: w.Quantity, Amount: w.Amount.StringFixed(2)}
}

func (s *Server) handleListExpenseItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.ledger.ListExpenseItems(r.Context(), userFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]expenseItemView, 0, len(items))
	for _, it := range items {
		views = append(views, viewExpenseItem(it))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetExpenseItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	it, err := s.ledger.GetExpenseItem(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewExpenseItem(it))
}

func (s *Server) handleAddExpenseItem(w http.ResponseWriter, r *http.Request) {
	var req expenseItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	it, err := s.ledger.AddExpenseItem(r.Context(), userFromContext(r.Context()), core.ExpenseItem{Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewExpenseItem(it))
}

func (s *Server) handleEditExpenseItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req expenseItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	it, err := s.ledger.EditExpenseItem(r.Context(), userFromContext(r.Context()), core.ExpenseItem{ID: id, Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewExpenseItem(it))
}

func (s *Server) handleDeleteExpenseItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteExpenseItem(r.Context(), userFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := s.ledger.ListWarehouses(r.Context(), userFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]warehouseView, 0, len(warehouses))
	for _, wh := range warehouses {
		views = append(views, viewWarehouse(wh))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	wh, err := s.ledger.GetWarehouse(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewWarehouse(wh))
}

func (s *Server) warehouseFromRequest(r *http.Request, id int64) (core.Warehouse, error) {
	var req warehouseRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Warehouse{}, err
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Warehouse{}, err
	}
	return core.Warehouse{ID: id, Name: req.Name, Quantity: req.Quantity, Amount: amount}, nil
}

func (s *Server) handleAddWarehouse(w http.ResponseWriter, r *http.Request) {
	wh, err := s.warehouseFromRequest(r, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	added, err := s.ledger.AddWarehouse(r.Context(), userFromContext(r.Context()), wh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewWarehouse(added))
}

func (s *Server) handleEditWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	wh, err := s.warehouseFromRequest(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	edited, err := s.ledger.EditWarehouse(r.Context(), userFromContext(r.Context()), wh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewWarehouse(edited))
}

func (s *Server) handleDeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteWarehouse(r.Context(), userFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
