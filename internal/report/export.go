// Package report serializes generated reports to the plain-text artifact.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shopledger/internal/core"
)

// Write serializes the report to path as one "label: value" line per row,
// UTF-8, replacing any previous artifact at that path. Values are written
// in their natural scale; money formatting belongs to the HTTP views.
func Write(path string, rep core.Report) (string, error) {
	var b strings.Builder
	for _, row := range rep.Rows {
		b.WriteString(row.Label)
		b.WriteString(": ")
		b.WriteString(row.Value.String())
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
