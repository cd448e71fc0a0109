// Package csvlog appends detected opportunities to a CSV file, grounded
// on the distilled source's utils/csv_logger.py OpportunityLogger.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

var header = []string{
	"Timestamp",
	"Level",
	"Pair",
	"Buy Source",
	"Buy Price",
	"Sell Source",
	"Sell Price",
	"Spread %",
	"Gross Profit",
	"Gas Cost",
	"Fees",
	"Net Profit",
}

// Writer appends Opportunity rows to a CSV file, creating it with a
// header row on first use.
type Writer struct {
	path string
}

// NewWriter opens (or creates) filename and ensures the header row is
// present.
func NewWriter(filename string) (*Writer, error) {
	w := &Writer{path: filename}
	if err := w.ensureHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) ensureHeader() error {
	if _, err := os.Stat(w.path); err == nil {
		return nil
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("csvlog: create %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()
	return cw.Write(header)
}

// Log appends one row per opportunity; a nil or empty slice is a no-op,
// matching the distilled source's log() short-circuit.
func (w *Writer) Log(opportunities []entities.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("csvlog: open %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	for _, o := range opportunities {
		row := []string{
			o.DetectedAt.Format("2006-01-02 15:04:05"),
			level(o.Tier),
			o.Pair,
			o.BuySource,
			fmt.Sprintf("%.6f", o.BuyPrice),
			o.SellSource,
			fmt.Sprintf("%.6f", o.SellPrice),
			fmt.Sprintf("%.2f%%", o.SpreadPercent),
			fmt.Sprintf("$%.2f", o.GrossProfit),
			fmt.Sprintf("$%.2f", o.GasCostUSD),
			fmt.Sprintf("$%.2f", o.FeesUSD),
			fmt.Sprintf("$%.2f", o.NetProfit),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csvlog: write row: %w", err)
		}
	}
	return nil
}

func level(tier string) string {
	if tier == "" {
		return "LOW"
	}
	return tier
}
