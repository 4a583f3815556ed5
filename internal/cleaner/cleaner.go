// Package cleaner turns a raw table into the cleaned, date-indexed table the
// rest of the pipeline works on.
package cleaner

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cast"

	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/types"
)

var (
	// ErrDateColumnMissing means the configured date column is not in the header
	ErrDateColumnMissing = errors.New("date column not found")
	// ErrDateParse is matched by every *DateParseError
	ErrDateParse = errors.New("date column could not be parsed")
	// ErrValueParse is matched by every *ValueParseError
	ErrValueParse = errors.New("value column could not be parsed")

	errMissingDate = errors.New("missing value")
)

// DateParseError identifies the first date cell that failed to parse
type DateParseError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q in column %q as a date: %v", e.Row, e.Value, e.Column, e.Err)
}

func (e *DateParseError) Is(target error) bool { return target == ErrDateParse }

func (e *DateParseError) Unwrap() error { return e.Err }

// ValueParseError identifies a non-numeric cell in a value column
type ValueParseError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %q in column %q as a number: %v", e.Row, e.Value, e.Column, e.Err)
}

func (e *ValueParseError) Is(target error) bool { return target == ErrValueParse }

func (e *ValueParseError) Unwrap() error { return e.Err }

// Options names the columns the cleaner keeps
type Options struct {
	DateColumn string
	// DateLayout is a Go time layout; empty selects per-value detection.
	DateLayout string
	// Location applies to timestamps without an explicit zone. Defaults to UTC.
	Location     *time.Location
	ValueColumns []string
}

// Result is a successful cleaning outcome
type Result struct {
	Table *types.Table
	// Dropped lists configured value columns absent from the source.
	Dropped []string
}

// Clean parses the date column, makes it the index and projects the value
// columns. A missing date column yields ErrDateColumnMissing and an
// unparseable date a *DateParseError; both leave no table behind.
func Clean(raw *types.RawTable, opts Options) (*Result, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	if !raw.HasColumn(opts.DateColumn) {
		log.Warnf("date column '%s' not found or incorrectly named", opts.DateColumn)
		return nil, fmt.Errorf("%w: %q", ErrDateColumnMissing, opts.DateColumn)
	}

	dates, err := raw.Records(opts.DateColumn)
	if err != nil {
		return nil, err
	}

	index := make([]time.Time, len(dates))
	for i, s := range dates {
		ts, err := parseDate(s, opts.DateLayout, loc)
		if err != nil {
			return nil, &DateParseError{Column: opts.DateColumn, Row: i + 1, Value: s, Err: err}
		}
		index[i] = ts
	}
	log.Infof("date column '%s' converted to timestamps and set as index", opts.DateColumn)

	table := types.NewTable(opts.DateColumn, index)
	var dropped []string
	for _, name := range opts.ValueColumns {
		if !raw.HasColumn(name) {
			dropped = append(dropped, name)
			continue
		}

		values, err := columnValues(raw, name)
		if err != nil {
			return nil, err
		}
		if err := table.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	if len(dropped) > 0 {
		log.Warnw("missing relevant columns, continuing with the columns present",
			"missing", dropped, "kept", table.Columns())
	}

	log.Infow("data cleaning complete", "rows", table.Len(), "columns", table.Columns())
	return &Result{Table: table, Dropped: dropped}, nil
}

func parseDate(s, layout string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return time.Time{}, errMissingDate
	}
	if layout != "" {
		return time.ParseInLocation(layout, s, loc)
	}
	return dateparse.ParseIn(s, loc)
}

// columnValues reads a value column. Columns gota already typed as numeric
// are taken as-is; anything else is coerced cell by cell so a stray
// non-numeric cell fails the run instead of turning into NaN.
func columnValues(raw *types.RawTable, name string) ([]float64, error) {
	col := raw.Frame.Col(name)
	switch col.Type() {
	case series.Float, series.Int, series.Bool:
		return col.Float(), nil
	}
	return parseValues(name, col.Records())
}

func parseValues(column string, records []string) ([]float64, error) {
	values := make([]float64, len(records))
	for i, s := range records {
		s = strings.TrimSpace(s)
		if isMissing(s) {
			values[i] = math.NaN()
			continue
		}
		v, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, &ValueParseError{Column: column, Row: i + 1, Value: s, Err: err}
		}
		values[i] = v
	}
	return values, nil
}

func isMissing(s string) bool {
	switch s {
	case "", "NaN", "NA", "N/A", "null", "<nil>":
		return true
	}
	return false
}
