package archive

import (
	"math"
	"time"
)

// Run is one pipeline execution
type Run struct {
	ID         string    `gorm:"primaryKey;column:id"`
	InputPath  string    `gorm:"column:input_path;not null"`
	DateColumn string    `gorm:"column:date_column"`
	RowCount   int       `gorm:"column:row_count"`
	FirstDate  time.Time `gorm:"column:first_date"`
	LastDate   time.Time `gorm:"column:last_date"`
	CreatedAt  time.Time `gorm:"column:created_at"`

	Stats    []ColumnStat     `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	Readings []Reading        `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	Monthly  []MonthlySummary `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Run
func (Run) TableName() string {
	return "runs"
}

// ColumnStat holds the overall statistics of one column for a run
type ColumnStat struct {
	ID     uint     `gorm:"primaryKey;autoIncrement;column:id"`
	RunID  string   `gorm:"column:run_id;index;not null"`
	Column string   `gorm:"column:column_name;not null"`
	Count  int      `gorm:"column:count"`
	Mean   *float64 `gorm:"column:mean"`
	Min    *float64 `gorm:"column:min"`
	Max    *float64 `gorm:"column:max"`
	StdDev *float64 `gorm:"column:stddev"`
}

// TableName specifies the table name for ColumnStat
func (ColumnStat) TableName() string {
	return "column_stats"
}

// Reading is a single cleaned cell. Missing cells are stored as NULL.
type Reading struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	RunID     string    `gorm:"column:run_id;index:idx_readings_run_time;not null"`
	Timestamp time.Time `gorm:"column:timestamp;index:idx_readings_run_time;not null"`
	Column    string    `gorm:"column:column_name;not null"`
	Value     *float64  `gorm:"column:value"`
}

// TableName specifies the table name for Reading
func (Reading) TableName() string {
	return "readings"
}

// MonthlySummary is one month bucket of a run
type MonthlySummary struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:id"`
	RunID           string    `gorm:"column:run_id;index;not null"`
	Month           time.Time `gorm:"column:month;not null"`
	Count           int       `gorm:"column:count"`
	TemperatureMean *float64  `gorm:"column:temperature_mean"`
	TemperatureMin  *float64  `gorm:"column:temperature_min"`
	TemperatureMax  *float64  `gorm:"column:temperature_max"`
	RainfallSum     *float64  `gorm:"column:rainfall_sum"`
	HumidityMean    *float64  `gorm:"column:humidity_mean"`
}

// TableName specifies the table name for MonthlySummary
func (MonthlySummary) TableName() string {
	return "monthly_summaries"
}

// nullable maps NaN to NULL
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
