package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/types"
)

// Workbook sheet names
const (
	SheetCleaned = "Cleaned"
	SheetOverall = "Overall"
	SheetMonthly = "Monthly"
)

// WriteWorkbook saves the cleaned table, the overall statistics and the full
// monthly summary as an XLSX workbook with one sheet each.
func WriteWorkbook(path string, t *types.Table, overall *types.OverallStats, monthly *types.MonthlySummary) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCleaned); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetOverall, SheetMonthly} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeCleanedSheet(f, t); err != nil {
		return err
	}
	if err := writeOverallSheet(f, overall); err != nil {
		return err
	}
	if err := writeMonthlySheet(f, monthly); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Infow("workbook exported", "path", path)
	return nil
}

func writeCleanedSheet(f *excelize.File, t *types.Table) error {
	columns := t.Columns()
	header := []interface{}{t.IndexName}
	for _, c := range columns {
		header = append(header, c)
	}
	if err := setRow(f, SheetCleaned, 1, header); err != nil {
		return err
	}

	values := make([][]float64, len(columns))
	for i, name := range columns {
		v, err := t.Column(name)
		if err != nil {
			return err
		}
		values[i] = v
	}

	for row, ts := range t.Index {
		record := []interface{}{ts}
		for i := range columns {
			record = append(record, cell(values[i][row]))
		}
		if err := setRow(f, SheetCleaned, row+2, record); err != nil {
			return err
		}
	}
	return nil
}

func writeOverallSheet(f *excelize.File, overall *types.OverallStats) error {
	header := []interface{}{""}
	for _, c := range overall.Columns {
		header = append(header, c.Column)
	}
	if err := setRow(f, SheetOverall, 1, header); err != nil {
		return err
	}

	for i, name := range types.StatNames {
		record := []interface{}{name}
		for _, c := range overall.Columns {
			record = append(record, cell(c.Value(name)))
		}
		if err := setRow(f, SheetOverall, i+2, record); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthlySheet(f *excelize.File, monthly *types.MonthlySummary) error {
	c := monthly.Columns
	header := []interface{}{
		"Month",
		"Count",
		c.Temperature + " mean",
		c.Temperature + " min",
		c.Temperature + " max",
		c.Rainfall + " sum",
		c.Humidity + " mean",
	}
	if err := setRow(f, SheetMonthly, 1, header); err != nil {
		return err
	}

	for i, r := range monthly.Rows {
		record := []interface{}{
			r.Month.Format(dateLayout),
			r.Count,
			cell(r.TemperatureMean),
			cell(r.TemperatureMin),
			cell(r.TemperatureMax),
			cell(r.RainfallSum),
			cell(r.HumidityMean),
		}
		if err := setRow(f, SheetMonthly, i+2, record); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, ref, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// cell leaves NaN statistics blank
func cell(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
