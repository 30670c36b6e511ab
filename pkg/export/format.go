package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pizzalog/eventgen/pkg/simulation"
)

// Format names an output encoding
type Format string

const (
	FormatCSV       Format = "csv"
	FormatJSONLines Format = "jsonl"
)

// ParseFormat validates a user supplied format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSONLines, "json":
		return FormatJSONLines, nil
	default:
		return "", fmt.Errorf("unknown export format %q: must be either 'csv' or 'jsonl'", name)
	}
}

// ContentType is the HTTP media type of the format
func (f Format) ContentType() string {
	if f == FormatJSONLines {
		return "application/x-ndjson"
	}
	return "text/csv; charset=utf-8"
}

// record is a JSON line: the event tagged with the run that produced it
type record struct {
	RunID string `json:"runId"`
	simulation.OrderEvent
}

// WriteJSONLines writes one JSON object per event
func WriteJSONLines(w io.Writer, runID string, events []simulation.OrderEvent) error {
	enc := json.NewEncoder(w)
	for i := range events {
		if err := enc.Encode(record{RunID: runID, OrderEvent: events[i]}); err != nil {
			return fmt.Errorf("failed to encode event %d: %w", i+1, err)
		}
	}
	return nil
}

// Write encodes events in the given format
func Write(w io.Writer, format Format, runID string, events []simulation.OrderEvent) error {
	switch format {
	case FormatJSONLines:
		return WriteJSONLines(w, runID, events)
	default:
		return WriteCSV(w, events)
	}
}
