package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pizzalog/eventgen/pkg/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []simulation.OrderEvent {
	at := time.Date(2024, 1, 7, 0, 3, 0, 0, time.UTC)
	return []simulation.OrderEvent{
		{
			CaseID:    "CASE-1",
			Activity:  simulation.ActivityOrderReceived,
			Timestamp: at,
			Resource:  "System",
			Order: &simulation.OrderDetails{
				Items:       []string{"Margherita Pizza", "Cola"},
				TotalAmount: 15.98,
				Hour:        0,
				DayOfWeek:   time.Sunday,
			},
		},
		{
			CaseID:        "CASE-1",
			Activity:      simulation.ActivityPaymentConfirmed,
			Timestamp:     at.Add(2 * time.Minute),
			Resource:      "Cashier 2",
			Cost:          15.98,
			PaymentMethod: simulation.PaymentCard,
		},
		{
			CaseID:    "CASE-1",
			Activity:  simulation.ActivityPreparationStarted,
			Timestamp: at.Add(5 * time.Minute),
			Resource:  "Mario",
			Item:      "Margherita Pizza",
			Station:   "Oven 1",
			Status:    "Started",
		},
		{
			CaseID:    "CASE-1",
			Activity:  simulation.ActivityReturnedToStore,
			Timestamp: at.Add(70 * time.Minute),
			Resource:  "Driver 1",
			Cost:      7.99,
			Status:    "Failed Delivery",
			Details:   "Unable to locate delivery address, returning",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEvents()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{
		"CASE-1", "Order Received", "2024-01-07T00:03:00.000Z", "System", "0",
		"Margherita Pizza, Cola", "", "", "", "0", "0", "15.98",
	}, rows[1])
	assert.Equal(t, []string{
		"CASE-1", "Payment Confirmed", "2024-01-07T00:05:00.000Z", "Cashier 2", "15.98",
		"", "", "", "", "", "", "",
	}, rows[2])
	assert.Equal(t, "Oven 1", rows[3][8])
	assert.Equal(t, "Started", rows[3][6])
	assert.Equal(t, "Unable to locate delivery address, returning", rows[4][7])
}

func TestWriteCSVQuotesItemList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEvents()[:1]))
	assert.Contains(t, buf.String(), `"Margherita Pizza, Cola"`)
}

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONLines(&buf, "run-42", sampleEvents()))

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 4)

	assert.Equal(t, "run-42", lines[0]["runId"])
	assert.Equal(t, "Order Received", lines[0]["activity"])
	details := lines[0]["orderDetails"].(map[string]any)
	assert.Equal(t, float64(0), details["hour"])
	assert.Equal(t, "card", lines[1]["paymentMethod"])
	assert.NotContains(t, lines[1], "orderDetails")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatCSV},
		{in: "csv", want: FormatCSV},
		{in: "jsonl", want: FormatJSONLines},
		{in: "json", want: FormatJSONLines},
		{in: "xes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "application/x-ndjson", FormatJSONLines.ContentType())
	assert.True(t, strings.HasPrefix(FormatCSV.ContentType(), "text/csv"))
}

func TestWrite(t *testing.T) {
	var csvBuf, jsonBuf bytes.Buffer
	require.NoError(t, Write(&csvBuf, FormatCSV, "r", sampleEvents()))
	require.NoError(t, Write(&jsonBuf, FormatJSONLines, "r", sampleEvents()))

	assert.True(t, strings.HasPrefix(csvBuf.String(), "Case ID,Activity"))
	assert.True(t, strings.HasPrefix(jsonBuf.String(), `{"runId":"r"`))
}

// MockPublisher records published messages
type MockPublisher struct {
	Messages []*nats.Msg
	Flushed  bool
	Err      error
}

func (m *MockPublisher) PublishMsg(msg *nats.Msg) error {
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

func (m *MockPublisher) FlushWithContext(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return nats.ErrNoDeadlineContext
	}
	m.Flushed = true
	return nil
}

func TestNATSSinkPublish(t *testing.T) {
	pub := &MockPublisher{}
	sink := NewNATSSink(pub, "", "run-7")

	require.NoError(t, sink.Publish(context.Background(), sampleEvents()))
	require.Len(t, pub.Messages, 4)
	assert.True(t, pub.Flushed)

	msg := pub.Messages[1]
	assert.Equal(t, "pizza.events.CASE-1", msg.Subject)
	assert.Equal(t, "run-7", msg.Header.Get(HeaderRunID))
	assert.Equal(t, "Payment Confirmed", msg.Header.Get(HeaderActivity))

	var ev simulation.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, 15.98, ev.Cost)
	assert.NoError(t, sink.Close())
}

func TestNATSSinkPublishError(t *testing.T) {
	pub := &MockPublisher{Err: errors.New("connection closed")}
	sink := NewNATSSink(pub, "orders", "run-7")

	err := sink.Publish(context.Background(), sampleEvents())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders.CASE-1")
}

func TestNATSSinkPublishCancelled(t *testing.T) {
	pub := &MockPublisher{}
	sink := NewNATSSink(pub, "orders", "run-7")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sink.Publish(ctx, sampleEvents())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pub.Messages)
}
