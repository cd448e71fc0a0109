// Package cli prints scan results to stdout for the headless entry point,
// grounded on the distilled source's ui/terminal.py table layout but
// rendered as a plain tabwriter table instead of a live Rich dashboard
// (SPEC_FULL.md §10 CLI).
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

// maxReportRows caps how many opportunities are printed per scan, mirroring
// the distilled source's "Show top 15" table slice.
const maxReportRows = 15

// PrintOpportunities writes a tab-aligned table of the top opportunities,
// highest net profit first (the caller is expected to have already
// sorted).
func PrintOpportunities(w io.Writer, opportunities []entities.Opportunity) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tLEVEL\tPAIR\tBUY FROM\tBUY PRICE\tSELL TO\tSELL PRICE\tSPREAD\tGAS\tFEES\tNET PROFIT")

	if len(opportunities) == 0 {
		fmt.Fprintln(tw, "-\t-\t-\t-\t-\tNo profitable opportunities found yet...\t-\t-\t-\t-")
		return
	}

	rows := opportunities
	if len(rows) > maxReportRows {
		rows = rows[:maxReportRows]
	}

	for i, o := range rows {
		level := o.Tier
		if level == "" {
			level = "LOW"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%.2f%%\t$%.2f\t$%.2f\t$%.2f\n",
			i+1,
			level,
			o.Pair,
			o.BuySource,
			formatPrice(o.BuyPrice),
			o.SellSource,
			formatPrice(o.SellPrice),
			o.SpreadPercent,
			o.GasCostUSD,
			o.FeesUSD,
			o.NetProfit,
		)
	}
}

// PrintTriangular writes a tab-aligned table of detected triangular cycles.
func PrintTriangular(w io.Writer, opportunities []entities.TriangularOpportunity) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tVENUE\tCYCLE\tPROFIT %\tNET PROFIT")

	if len(opportunities) == 0 {
		fmt.Fprintln(tw, "-\t-\tNo triangular opportunities found yet...\t-\t-")
		return
	}

	rows := opportunities
	if len(rows) > maxReportRows {
		rows = rows[:maxReportRows]
	}

	for i, o := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f%%\t$%.2f\n",
			i+1, o.Venue, cycleLabel(o), o.ProfitPercent, o.NetProfit)
	}
}

func cycleLabel(o entities.TriangularOpportunity) string {
	return fmt.Sprintf("%s->%s->%s->%s", o.Legs[0].From, o.Legs[0].To, o.Legs[1].To, o.Legs[2].To)
}

func formatPrice(p float64) string {
	if p > 1 {
		return fmt.Sprintf("$%.2f", p)
	}
	return fmt.Sprintf("$%.6f", p)
}
