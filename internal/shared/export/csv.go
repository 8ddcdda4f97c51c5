// Package export renders domain results as CSV for download endpoints and
// batch artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	analyticsentity "stock_dashboard/internal/feature/analytics/domain/entity"
	moversentity "stock_dashboard/internal/feature/movers/domain/entity"
	quotesentity "stock_dashboard/internal/feature/quotes/domain/entity"
)

// WriteHistory writes one row per bar with the column layout used by the
// chart download: Date,Open,High,Low,Close,Volume.
func WriteHistory(w io.Writer, history quotesentity.History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume"}); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}
	for _, bar := range history {
		row := []string{
			bar.Time.UTC().Format("2006-01-02"),
			formatPrice(bar.Open),
			formatPrice(bar.High),
			formatPrice(bar.Low),
			formatPrice(bar.Close),
			strconv.FormatInt(bar.Volume, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write history row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailyReturns writes Date,Daily_Returns rows. NaN entries (the first
// bar, changes against a zero close) become empty cells.
func WriteDailyReturns(w io.Writer, series *analyticsentity.ReturnSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Daily_Returns"}); err != nil {
		return fmt.Errorf("write returns header: %w", err)
	}
	for i, date := range series.Dates {
		value := ""
		if i < len(series.Daily) && !math.IsNaN(series.Daily[i]) {
			value = formatPrice(series.Daily[i])
		}
		if err := cw.Write([]string{date, value}); err != nil {
			return fmt.Errorf("write returns row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMoverReport writes the gainer rows followed by the loser rows, each
// tagged with its side. Prices and percentages are already rounded to two
// decimals by the ranker.
func WriteMoverReport(w io.Writer, report *moversentity.MoverReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"side", "symbol", "previous_close", "last_close", "percent_change"}); err != nil {
		return fmt.Errorf("write movers header: %w", err)
	}
	writeSide := func(side string, records []moversentity.MoverRecord) error {
		for _, rec := range records {
			row := []string{
				side,
				rec.Symbol,
				fmt.Sprintf("%.2f", rec.PreviousClose),
				fmt.Sprintf("%.2f", rec.LastClose),
				fmt.Sprintf("%.2f", rec.PercentChange),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write movers row: %w", err)
			}
		}
		return nil
	}
	if err := writeSide("gainer", report.Gainers); err != nil {
		return err
	}
	if err := writeSide("loser", report.Losers); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// HistoryFilename is the attachment name for a symbol's bar download.
func HistoryFilename(symbol string) string {
	return sanitize(symbol) + "_stock_data.csv"
}

// ReturnsFilename is the attachment name for a symbol's daily returns download.
func ReturnsFilename(symbol string) string {
	return sanitize(symbol) + "_daily_returns.csv"
}

// MoversFilename names a mover report artifact after its scan.
func MoversFilename(scanID string) string {
	return sanitize(scanID) + ".csv"
}

// formatPrice renders a float with the shortest representation that
// round-trips, matching how the series are shown in the dashboard.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitize keeps filenames safe for Content-Disposition and the filesystem.
func sanitize(s string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_", "\"", "")
	return replacer.Replace(s)
}
