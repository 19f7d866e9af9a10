// Package report writes collected repositories to disk.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klimeurt/healthcare-repo-collector/internal/collector"
)

// CSVHeader is the fixed column order of the CSV export.
var CSVHeader = []string{
	"source_query",
	"name",
	"full_name",
	"url",
	"category",
	"description",
	"language",
	"stars",
	"forks",
	"open_issues",
	"created_at",
	"updated_at",
	"topics",
}

// WriteCSV writes records to path, creating parent directories. Rows end in
// CRLF. With no records the file holds a single "\n" and no header.
func WriteCSV(records []collector.Record, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	if len(records) == 0 {
		if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.FullName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return f.Close()
}

func csvRow(r collector.Record) []string {
	return []string{
		r.SourceQuery,
		r.Name,
		r.FullName,
		r.URL,
		string(r.Category),
		r.Description,
		r.Language,
		strconv.Itoa(r.Stars),
		strconv.Itoa(r.Forks),
		strconv.Itoa(r.OpenIssues),
		r.CreatedAt,
		r.UpdatedAt,
		r.TopicsText(),
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
