// Package http exposes the ledger over a JSON API. Every route except login
// sits behind a session check; authorization itself lives in the service
// layer.
package http

import (
	"context"
	"net/http"
	"time"

	"shopledger/internal/core"
	applog "shopledger/internal/log"
)

const sessionTTL = 12 * time.Hour

// Authenticator verifies a credential pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (core.User, error)
}

// LedgerService is the record-management surface the handlers call.
type LedgerService interface {
	ListExpenseItems(ctx context.Context, actor core.User) ([]core.ExpenseItem, error)
	GetExpenseItem(ctx context.Context, actor core.User, id int64) (core.ExpenseItem, error)
	AddExpenseItem(ctx context.Context, actor core.User, it core.ExpenseItem) (core.ExpenseItem, error)
	EditExpenseItem(ctx context.Context, actor core.User, it core.ExpenseItem) (core.ExpenseItem, error)
	DeleteExpenseItem(ctx context.Context, actor core.User, id int64) error

	ListWarehouses(ctx context.Context, actor core.User) ([]core.Warehouse, error)
	GetWarehouse(ctx context.Context, actor core.User, id int64) (core.Warehouse, error)
	AddWarehouse(ctx context.Context, actor core.User, w core.Warehouse) (core.Warehouse, error)
	EditWarehouse(ctx context.Context, actor core.User, w core.Warehouse) (core.Warehouse, error)
	DeleteWarehouse(ctx context.Context, actor core.User, id int64) error

	ListSales(ctx context.Context, actor core.User) ([]core.Sale, error)
	GetSale(ctx context.Context, actor core.User, id int64) (core.Sale, error)
	AddSale(ctx context.Context, actor core.User, sale core.Sale) (core.Sale, error)
	EditSale(ctx context.Context, actor core.User, sale core.Sale) (core.Sale, error)
	DeleteSale(ctx context.Context, actor core.User, id int64) error

	ListCharges(ctx context.Context, actor core.User) ([]core.Charge, error)
	GetCharge(ctx context.Context, actor core.User, id int64) (core.Charge, error)
	AddCharge(ctx context.Context, actor core.User, charge core.Charge) (core.Charge, error)
	EditCharge(ctx context.Context, actor core.User, charge core.Charge) (core.Charge, error)
	DeleteCharge(ctx context.Context, actor core.User, id int64) error
}

// ReportGenerator produces the canned reports.
type ReportGenerator interface {
	MonthlyProfit(ctx context.Context) (core.Report, error)
	TopItems(ctx context.Context) (core.Report, error)
}

type Server struct {
	http.Server
	verifier   Authenticator
	ledger     LedgerService
	reports    ReportGenerator
	sessions   *SessionStore
	reportPath string
}

// NewServer configures routes and timeouts, returning a ready-to-run server.
func NewServer(addr string, verifier Authenticator, ledger LedgerService, reports ReportGenerator, reportPath string, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        applog.Middleware(logger)(mux),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		verifier:   verifier,
		ledger:     ledger,
		reports:    reports,
		sessions:   NewSessionStore(sessionTTL),
		reportPath: reportPath,
	}

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.Handle("GET /api/expense-items", s.requireSession(s.handleListExpenseItems))
	mux.Handle("POST /api/expense-items", s.requireSession(s.handleAddExpenseItem))
	mux.Handle("GET /api/expense-items/{id}", s.requireSession(s.handleGetExpenseItem))
	mux.Handle("PUT /api/expense-items/{id}", s.requireSession(s.handleEditExpenseItem))
	mux.Handle("DELETE /api/expense-items/{id}", s.requireSession(s.handleDeleteExpenseItem))

	mux.Handle("GET /api/warehouses", s.requireSession(s.handleListWarehouses))
	mux.Handle("POST /api/warehouses", s.requireSession(s.handleAddWarehouse))
	mux.Handle("GET /api/warehouses/{id}", s.requireSession(s.handleGetWarehouse))
	mux.Handle("PUT /api/warehouses/{id}", s.requireSession(s.handleEditWarehouse))
	mux.Handle("DELETE /api/warehouses/{id}", s.requireSession(s.handleDeleteWarehouse))

	mux.Handle("GET /api/sales", s.requireSession(s.handleListSales))
	mux.Handle("POST /api/sales", s.requireSession(s.handleAddSale))
	mux.Handle("GET /api/sales/{id}", s.requireSession(s.handleGetSale))
	mux.Handle("PUT /api/sales/{id}", s.requireSession(s.handleEditSale))
	mux.Handle("DELETE /api/sales/{id}", s.requireSession(s.handleDeleteSale))

	mux.Handle("GET /api/charges", s.requireSession(s.handleListCharges))
	mux.Handle("POST /api/charges", s.requireSession(s.handleAddCharge))
	mux.Handle("GET /api/charges/{id}", s.requireSession(s.handleGetCharge))
	mux.Handle("PUT /api/charges/{id}", s.requireSession(s.handleEditCharge))
	mux.Handle("DELETE /api/charges/{id}", s.requireSession(s.handleDeleteCharge))

	mux.Handle("GET /api/reports/monthly-profit", s.requireSession(s.handleMonthlyProfit))
	mux.Handle("GET /api/reports/top-items", s.requireSession(s.handleTopItems))
	mux.Handle("POST /api/reports/save", s.requireSession(s.handleSaveReport))

	return s
}

type contextKey string

const userContextKey contextKey = "user"

func userFromContext(ctx context.Context) core.User {
	user, _ := ctx.Value(userContextKey).(core.User)
	return user
}

// requireSession resolves the session cookie to a user and rejects the
// request with 401 when there is none.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		user, ok := s.sessions.Lookup(cookie.Value)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session expired"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}
