// Package export writes a generated event log to files, HTTP responses and
// message subjects.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pizzalog/eventgen/pkg/simulation"
)

// DefaultCSVFile is the file name a CSV export gets when none is given
const DefaultCSVFile = "pizza_process_events.csv"

// Header is the column layout process-mining tools import
var Header = []string{
	"Case ID",
	"Activity",
	"Timestamp",
	"Resource",
	"Cost",
	"Items",
	"Status",
	"Details",
	"Station",
	"Order Hour",
	"Day of Week",
	"Total Amount",
}

// WriteCSV writes the header and one row per event
func WriteCSV(w io.Writer, events []simulation.OrderEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range events {
		if err := cw.Write(Row(&events[i])); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Row renders one event in Header order. Order columns are only filled on
// Order Received rows; absent fields are empty cells.
func Row(ev *simulation.OrderEvent) []string {
	var items, hour, day, total string
	if ev.Activity == simulation.ActivityOrderReceived && ev.Order != nil {
		items = strings.Join(ev.Order.Items, ", ")
		hour = strconv.Itoa(ev.Order.Hour)
		day = strconv.Itoa(int(ev.Order.DayOfWeek))
		total = formatAmount(ev.Order.TotalAmount)
	}

	return []string{
		ev.CaseID,
		string(ev.Activity),
		ev.Timestamp.Format(simulation.TimestampLayout),
		ev.Resource,
		formatAmount(ev.Cost),
		items,
		ev.Status,
		ev.Details,
		ev.Station,
		hour,
		day,
		total,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
