package http

import (
	"net/http"

	"shopledger/internal/core"
)

type saleView struct {
	ID            int64  `json:"id"`
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name,omitempty"`
	SaleDate      string `json:"sale_date"`
	Quantity      int64  `json:"quantity"`
	Amount        string `json:"amount"`
}

type chargeView struct {
	ID              int64  `json:"id"`
	ExpenseItemID   int64  `json:"expense_item_id"`
	ExpenseItemName string `json:"expense_item_name,omitempty"`
	ChargeDate      string `json:"charge_date"`
	Amount          string `json:"amount"`
}

type saleRequest struct {
	WarehouseID int64  `json:"warehouse_id"`
	SaleDate    string `json:"sale_date"`
	Quantity    int64  `json:"quantity"`
	Amount      string `json:"amount"`
}

type chargeRequest struct {
	ExpenseItemID int64  `json:"expense_item_id"`
	ChargeDate    string `json:"charge_date"`
	Amount        string `json:"amount"`
}

func viewSale(s core.Sale) saleView {
	return saleView{
		ID:            s.ID,
		WarehouseID:   s.WarehouseID,
		WarehouseName: s.WarehouseName,
		SaleDate:      s.SaleDate.Format(timestampLayout),
		Quantity:      s.Quantity,
		Amount:        s.Amount.StringFixed(2),
	}
}

func viewCharge(c core.Charge) chargeView {
	return chargeView{
		ID:              c.ID,
		ExpenseItemID:   c.ExpenseItemID,
		ExpenseItemName: c.ExpenseItemName,
		ChargeDate:      c.ChargeDate.Format(dateLayout),
		Amount:          c.Amount.StringFixed(2),
	}
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.ledger.ListSales(r.Context(), userFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]saleView, 0, len(sales))
	for _, sale := range sales {
		views = append(views, viewSale(sale))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sale, err := s.ledger.GetSale(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewSale(sale))
}

func (s *Server) saleFromRequest(r *http.Request, id int64) (core.Sale, error) {
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Sale{}, err
	}
	date, err := parseSaleTime(req.SaleDate)
	if err != nil {
		return core.Sale{}, err
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Sale{}, err
	}
	return core.Sale{
		ID:          id,
		WarehouseID: req.WarehouseID,
		SaleDate:    date,
		Quantity:    req.Quantity,
		Amount:      amount,
	}, nil
}

func (s *Server) handleAddSale(w http.ResponseWriter, r *http.Request) {
	sale, err := s.saleFromRequest(r, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	added, err := s.ledger.AddSale(r.Context(), userFromContext(r.Context()), sale)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewSale(added))
}

func (s *Server) handleEditSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sale, err := s.saleFromRequest(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	edited, err := s.ledger.EditSale(r.Context(), userFromContext(r.Context()), sale)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewSale(edited))
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteSale(r.Context(), userFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := s.ledger.ListCharges(r.Context(), userFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]chargeView, 0, len(charges))
	for _, charge := range charges {
		views = append(views, viewCharge(charge))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetCharge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	charge, err := s.ledger.GetCharge(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCharge(charge))
}

func (s *Server) chargeFromRequest(r *http.Request, id int64) (core.Charge, error) {
	var req chargeRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Charge{}, err
	}
	date, err := parseDate(req.ChargeDate)
	if err != nil {
		return core.Charge{}, err
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Charge{}, err
	}
	return core.Charge{
		ID:            id,
		ExpenseItemID: req.ExpenseItemID,
		ChargeDate:    date,
		Amount:        amount,
	}, nil
}

func (s *Server) handleAddCharge(w http.ResponseWriter, r *http.Request) {
	charge, err := s.chargeFromRequest(r, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	added, err := s.ledger.AddCharge(r.Context(), userFromContext(r.Context()), charge)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewCharge(added))
}

func (s *Server) handleEditCharge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	charge, err := s.chargeFromRequest(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	edited, err := s.ledger.EditCharge(r.Context(), userFromContext(r.Context()), charge)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCharge(edited))
}

func (s *Server) handleDeleteCharge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteCharge(r.Context(), userFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
