package http

import (
	"fmt"
	"net/http"
	"time"

	"shopledger/internal/core"
	applog "shopledger/internal/log"
	"shopledger/internal/report"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.verifier.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Login rejected",
			applog.FieldUsername, req.Username)
		writeError(w, r, err)
		return
	}

	token, err := s.sessions.Create(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, sessionCookie(token, int(sessionTTL.Seconds())))
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Login accepted",
		applog.FieldUsername, user.Username,
		applog.FieldRole, string(user.Role))
	writeJSON(w, http.StatusOK, userResponse{Username: user.Username, Role: string(user.Role)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMonthlyProfit(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.MonthlyProfit(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleTopItems(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.TopItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type saveReportRequest struct {
	Report string `json:"report"`
}

type saveReportResponse struct {
	Path string `json:"path"`
}

func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	var req saveReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var (
		rep core.Report
		err error
	)
	switch req.Report {
	case "monthly-profit":
		rep, err = s.reports.MonthlyProfit(r.Context())
	case "top-items":
		rep, err = s.reports.TopItems(r.Context())
	default:
		writeError(w, r, fmt.Errorf("unknown report %q: %w", req.Report, errBadRequestBody))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	path, err := report.Write(s.reportPath, rep)
	if err != nil {
		writeError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Report exported",
		applog.FieldReport, req.Report,
		applog.FieldPath, path)
	writeJSON(w, http.StatusOK, saveReportResponse{Path: path})
}

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, errBadRequestBody)
	}
	return t, nil
}

// parseSaleTime accepts a full timestamp or a bare date, which reads as
// midnight. Sales carry a time of day; charges are per calendar day.
func parseSaleTime(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	return parseDate(s)
}
