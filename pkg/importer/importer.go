// Package importer ingests bulk-upload spreadsheets into the inventory.
//
// The input contract: the first sheet's header row, after trimming and
// case-folding, must match a subset of the canonical display field names.
// Unmatched columns are reported but not fatal. A row is skipped as blank
// iff every matched field is empty after trimming. Each surviving row is
// inserted independently; a failure partway through leaves a partial import
// with no rollback.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tealeg/xlsx/v3"

	"github.com/jbautista-a11y/inventario-ti/internal/schema"
)

// Options defines the configuration for one import run.
type Options struct {
	Actor     string // stamped as modificado_por on every inserted row
	DryRun    bool
	MaxErrors int // default 50
}

// RowError represents an error that occurred during row processing.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Summary contains the import statistics.
type Summary struct {
	BatchID          uuid.UUID  `json:"batch_id"`
	Inserted         int        `json:"inserted"`
	Skipped          int        `json:"skipped"`
	Errors           int        `json:"errors"`
	UnmatchedColumns []string   `json:"unmatched_columns,omitempty"`
	Samples          []RowError `json:"error_samples,omitempty"`
	DryRun           bool       `json:"dry_run"`
}

// ImportExcel processes a bulk-upload workbook and inserts its rows.
func ImportExcel(ctx context.Context, db *pgxpool.Pool, r io.Reader, opts Options) (Summary, error) {
	summary := Summary{BatchID: uuid.New(), DryRun: opts.DryRun}
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = 50
	}

	rows, unmatched, err := ReadRows(r)
	if err != nil {
		return summary, err
	}
	summary.UnmatchedColumns = unmatched

	conn, err := db.Acquire(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	defer conn.Release()

	for i, fields := range rows {
		if IsBlankRow(fields) {
			summary.Skipped++
			continue
		}

		if !opts.DryRun {
			if err := insertRow(ctx, conn, fields, opts.Actor); err != nil {
				summary.Errors++
				summary.Samples = append(summary.Samples, RowError{
					Row:     i + 2, // 1-based, after the header row
					Message: err.Error(),
				})
				if summary.Errors > opts.MaxErrors {
					return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
				}
				continue
			}
		}
		summary.Inserted++
	}

	return summary, nil
}

// ReadRows parses a bulk-upload workbook into display-shaped row maps. The
// second return value lists header columns that matched no canonical field
// (their cells are dropped from the rows).
func ReadRows(r io.Reader) ([]map[string]string, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := file.Sheets[0]
	if sheet.MaxRow == 0 {
		return nil, nil, fmt.Errorf("workbook has no header row")
	}

	headers := make([]string, 0, sheet.MaxCol)
	headerRow, err := sheet.Row(0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for col := 0; col < sheet.MaxCol; col++ {
		headers = append(headers, headerRow.GetCell(col).String())
	}
	columns, unmatched := MatchHeader(headers)

	rows := make([]map[string]string, 0, sheet.MaxRow-1)
	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		row, err := sheet.Row(rowIdx)
		if err != nil {
			break
		}
		fields := make(map[string]string, len(columns))
		for col, name := range columns {
			fields[name] = schema.NormalizeValue(row.GetCell(col).String())
		}
		rows = append(rows, fields)
	}
	return rows, unmatched, nil
}

// MatchHeader maps header cell text to canonical display field names,
// matching case-insensitively after trimming. Returns the column→field map
// and the list of non-empty headers that matched nothing.
func MatchHeader(headers []string) (map[int]string, []string) {
	canonical := make(map[string]string, 26)
	for _, name := range schema.DisplayFields() {
		canonical[strings.ToUpper(name)] = name
	}

	columns := make(map[int]string)
	var unmatched []string
	for i, h := range headers {
		text := strings.TrimSpace(h)
		if text == "" {
			continue
		}
		if name, ok := canonical[strings.ToUpper(text)]; ok {
			columns[i] = name
		} else {
			unmatched = append(unmatched, text)
		}
	}
	return columns, unmatched
}

// IsBlankRow reports whether every matched field of a row is empty after
// trimming. Blank rows are skipped by policy, not treated as errors.
func IsBlankRow(fields map[string]string) bool {
	for _, v := range fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// insertRow writes one storage-shaped row with the same stamping as the
// record writer: modification metadata plus a time-derived correlative tag.
func insertRow(ctx context.Context, conn *pgxpool.Conn, fields map[string]string, actor string) error {
	if actor == "" {
		actor = "Sistema"
	}
	now := time.Now()

	payload := schema.ToStorage(fields)
	payload["ultima_actualizacion"] = now.Format(time.RFC3339)
	payload["modificado_por"] = actor
	payload["numero"] = strconv.FormatInt(now.Unix(), 10)

	cols := make([]string, 0, len(payload))
	args := make([]any, 0, len(payload))
	placeholders := make([]string, 0, len(payload))
	for _, col := range schema.StorageFields() {
		if v, ok := payload[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO inventario (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	_, err := conn.Exec(ctx, query, args...)
	return err
}
