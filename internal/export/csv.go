package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/pacesim/internal/sim"
)

var csvHeader = []string{
	"period",
	"setpoint",
	"spend",
	"cumulative_reference",
	"cumulative_spend",
	"pacing_factor",
}

// WriteCSV writes one row per period with all three series side by side.
func WriteCSV(w io.Writer, h sim.History) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := 0; i < h.Len(); i++ {
		row := []string{
			strconv.Itoa(h.PacingFactors[i].Period),
			formatFloat(h.Current[i].Reference),
			formatFloat(h.Current[i].Actual),
			formatFloat(h.Cumulative[i].Reference),
			formatFloat(h.Cumulative[i].Actual),
			formatFloat(h.PacingFactors[i].Value),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, h sim.History) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, h); err != nil {
		return err
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
