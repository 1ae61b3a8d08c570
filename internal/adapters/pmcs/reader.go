// Package pmcs reads the project-controls schedule extract: a CSV export of
// the P6 task table, optionally zstd-compressed.
package pmcs

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/example/milestones/internal/core/reconcile"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/secondary"
)

// Extract column names.
const (
	colCode         = "task_code"
	colName         = "task_name"
	colTaskType     = "task_type"
	colWBS          = "wbs_id"
	colLevel        = "user_field_859"
	colBaseline     = "base_end_date"
	colStart        = "start_date"
	colForecast     = "end_date"
	colActual       = "act_end_date"
	colStatus       = "status_code"
	colCelebrate    = "actv_code_celebratory_achievements_id"
	colSummaryChart = "actv_code_summary_chart_id"
	colPredecessors = "pred_list"
	colSuccessors   = "succ_list"
)

// The export repeats the header with display labels on its second row.
const labelRowCode = "Activity ID"

const bom = "\ufeff"

// Date layouts accepted in the extract, most specific first.
var dateLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	models.DateLayout,
}

var wbsPattern = regexp.MustCompile(`LSST ME .*(0\dC\.\d\d(\.\d\d)?)`)

// ErrMissingColumn is returned when the header lacks task_code.
var ErrMissingColumn = errors.New("missing required column")

// ParseError reports an unparseable cell.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader implements secondary.TaskRecordSource for CSV extracts.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a new extract reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// LoadRecords parses the extract at path. Files ending in .zst are
// decompressed on the fly.
func (r *Reader) LoadRecords(ctx context.Context, path string) ([]models.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &reconcile.SourceUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, &reconcile.SourceUnavailableError{Path: path, Err: err}
		}
		defer dec.Close()
		src = dec
	}

	records, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extract %s: %w", path, err)
	}

	r.logger.Info("loaded schedule extract", "path", path, "records", len(records))
	return records, nil
}

// Parse reads every task record from a CSV stream.
func Parse(src io.Reader) ([]models.TaskRecord, error) {
	cr := csv.NewReader(bufio.NewReader(src))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty extract: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[colCode]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, colCode)
	}

	var records []models.TaskRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if get(colCode) == labelRowCode {
			continue
		}

		rec, err := parseRow(get, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(get func(string) string, line int) (models.TaskRecord, error) {
	rec := models.TaskRecord{
		Code:         get(colCode),
		Name:         get(colName),
		TaskType:     get(colTaskType),
		WBS:          ExtractWBS(get(colWBS)),
		Status:       get(colStatus),
		SummaryChart: get(colSummaryChart),
		Celebrate:    get(colCelebrate),
		Predecessors: splitCodes(get(colPredecessors)),
		Successors:   splitCodes(get(colSuccessors)),
	}

	if v := get(colLevel); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return rec, &ParseError{Line: line, Column: colLevel, Value: v, Err: err}
		}
		rec.Level = &level
	}

	dates := []struct {
		col string
		dst **time.Time
	}{
		{colBaseline, &rec.Baseline},
		{colStart, &rec.Start},
		{colForecast, &rec.Forecast},
		{colActual, &rec.Actual},
	}
	for _, d := range dates {
		v := get(d.col)
		if v == "" {
			continue
		}
		t, err := ParseDate(v)
		if err != nil {
			return rec, &ParseError{Line: line, Column: d.col, Value: v, Err: err}
		}
		*d.dst = &t
	}

	return rec, nil
}

// ParseDate parses a P6 date (with or without time of day) or an ISO date.
// The time of day is dropped.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}

// ExtractWBS pulls the WBS code (e.g. "02C.03.01") out of the extract's
// WBS path, or returns "" when it has none.
func ExtractWBS(s string) string {
	m := wbsPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func parseLevel(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Ensure Reader implements the interface.
var _ secondary.TaskRecordSource = (*Reader)(nil)
