// Package export writes the cleaned dataset, the Markdown summary report and
// the optional workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/types"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// WriteCleanedCSV writes t to path with the index as the first column,
// replacing any existing file. Missing values are written as empty cells.
func WriteCleanedCSV(path string, t *types.Table) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	columns := t.Columns()
	header := append([]string{t.IndexName}, columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	values := make([][]float64, len(columns))
	for i, name := range columns {
		v, err := t.Column(name)
		if err != nil {
			return err
		}
		values[i] = v
	}

	layout := IndexLayout(t.Index)
	record := make([]string, len(header))
	for row, ts := range t.Index {
		record[0] = ts.Format(layout)
		for i := range columns {
			record[i+1] = FormatFloat(values[i][row])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", row, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	log.Infow("cleaned data exported", "path", path, "rows", t.Len())
	return file.Close()
}

// IndexLayout picks a date-only layout when every timestamp is midnight and
// a date-time layout otherwise.
func IndexLayout(index []time.Time) string {
	for _, ts := range index {
		h, m, s := ts.Clock()
		if h != 0 || m != 0 || s != 0 || ts.Nanosecond() != 0 {
			return dateTimeLayout
		}
	}
	return dateLayout
}

// FormatFloat renders v in its shortest exact form, or "" for NaN
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
