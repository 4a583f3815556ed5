// Package loader reads the delimited weather file into a raw table and
// prints structural diagnostics about it.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"

	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/types"
)

// ErrInputNotFound means the configured input file does not exist
var ErrInputNotFound = errors.New("input file not found")

// missingMarkers are the cell values read as missing data
var missingMarkers = []string{"", "NA", "NaN", "N/A", "null", "<nil>"}

// Options controls how the source file is read
type Options struct {
	Delimiter rune
	// HeadRows is the number of rows printed in the head preview.
	HeadRows int
}

// Load reads path into a RawTable and writes head/info/describe
// diagnostics to diag.
func Load(path string, opts Options, diag io.Writer) (*types.RawTable, error) {
	log.Infof("loading data from %s", path)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithDelimiter(delim),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}

	raw := &types.RawTable{Path: path, Frame: df}
	log.Infow("data loaded", "path", path, "rows", df.Nrow(), "columns", df.Ncol())

	if diag != nil {
		if err := WriteDiagnostics(diag, raw, opts.HeadRows); err != nil {
			return nil, fmt.Errorf("failed to write diagnostics: %w", err)
		}
	}
	return raw, nil
}

// WriteDiagnostics prints the head preview, the per-column info table and
// the descriptive statistics of raw.
func WriteDiagnostics(w io.Writer, raw *types.RawTable, headRows int) error {
	df := raw.Frame

	fmt.Fprintf(w, "\n--- Data Structure (Head) ---\n")
	n := headRows
	if n > df.Nrow() {
		n = df.Nrow()
	}
	if n > 0 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		fmt.Fprintln(w, df.Subset(idx).String())
	} else {
		fmt.Fprintln(w, "(no rows)")
	}

	fmt.Fprintf(w, "\n--- Data Information (Info) ---\n")
	if err := writeInfo(w, raw); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n--- Data Statistics (Describe) ---\n")
	if df.Nrow() > 0 {
		fmt.Fprintln(w, df.Describe().String())
	} else {
		fmt.Fprintln(w, "(no rows)")
	}
	return nil
}

func writeInfo(w io.Writer, raw *types.RawTable) error {
	df := raw.Frame
	fmt.Fprintf(w, "Source: %s\n", raw.Path)
	fmt.Fprintf(w, "Rows: %d, Columns: %d\n", df.Nrow(), df.Ncol())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tColumn\tNon-Null Count\tDtype")
	dtypes := df.Types()
	for i, name := range df.Names() {
		nonNull := 0
		for _, isNaN := range df.Col(name).IsNaN() {
			if !isNaN {
				nonNull++
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%d non-null\t%s\n", i, name, nonNull, dtypes[i])
	}
	return tw.Flush()
}
