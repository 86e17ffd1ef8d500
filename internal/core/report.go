package core

import "github.com/shopspring/decimal"

// ReportRow is one (label, value) pair of a generated report.
type ReportRow struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Report is an ordered sequence of rows. Order is part of the contract:
// the monthly profit report always yields revenue, expenses, profit in that
// order, and the top items report is sorted by revenue.
type Report struct {
	Title string      `json:"title"`
	Rows  []ReportRow `json:"rows"`
}
