package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/pizzalog/eventgen/pkg/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func received(caseID string, at time.Time) simulation.OrderEvent {
	return simulation.OrderEvent{CaseID: caseID, Activity: simulation.ActivityOrderReceived, Timestamp: at, Resource: "System"}
}

func sampleLog() []simulation.OrderEvent {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []simulation.OrderEvent{
		received("CASE-1", day.Add(11*time.Hour+5*time.Minute)),
		{CaseID: "CASE-1", Activity: simulation.ActivityPaymentConfirmed, Timestamp: day.Add(11*time.Hour + 7*time.Minute), Resource: "Cashier 1", Cost: 20},
		received("CASE-2", day.Add(11*time.Hour+40*time.Minute)),
		{CaseID: "CASE-2", Activity: simulation.ActivityPaymentConfirmed, Timestamp: day.Add(11*time.Hour + 42*time.Minute), Resource: "Cashier 2", Cost: 10},
		{CaseID: "CASE-1", Activity: simulation.ActivityDelivered, Timestamp: day.Add(11*time.Hour + 45*time.Minute), Resource: "Driver 1"},
		received("CASE-3", day.Add(19*time.Hour)),
		{CaseID: "CASE-2", Activity: simulation.ActivityOrderNotPickedUp, Timestamp: day.Add(12*time.Hour + 40*time.Minute), Resource: "System", Cost: 10},
		{CaseID: "CASE-3", Activity: simulation.ActivityReturnedToStore, Timestamp: day.Add(20 * time.Hour), Resource: "Driver 2", Cost: 7.5},
	}
}

func TestBucketArrivals(t *testing.T) {
	buckets, err := BucketArrivals(sampleLog(), DefaultBucketSchedule)
	require.NoError(t, err)

	// midnight through the 19:00 bucket
	require.Len(t, buckets, 20)
	assert.Equal(t, 2, buckets[11].Orders)
	assert.Equal(t, 1, buckets[19].Orders)

	total := 0
	for i, b := range buckets {
		total += b.Orders
		assert.Equal(t, time.Hour, b.End.Sub(b.Start), "bucket %d", i)
	}
	assert.Equal(t, 3, total)
}

func TestBucketArrivalsDaily(t *testing.T) {
	buckets, err := BucketArrivals(sampleLog(), "0 0 * * *")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 3, buckets[0].Orders)
}

func TestBucketArrivalsErrors(t *testing.T) {
	_, err := BucketArrivals(sampleLog(), "every hour")
	assert.Error(t, err)

	buckets, err := BucketArrivals(nil, DefaultBucketSchedule)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestGenerateDemandChart(t *testing.T) {
	g := NewGenerator()

	out, err := g.GenerateDemandChart(sampleLog(), DefaultBucketSchedule)
	require.NoError(t, err)
	assert.Contains(t, out, "Order Arrivals Over Time")
	assert.Contains(t, out, "Busiest bucket: 2024-01-01 11:00 with 2 orders")
	assert.Contains(t, out, "█")

	out, err = g.GenerateDemandChart(nil, DefaultBucketSchedule)
	require.NoError(t, err)
	assert.Equal(t, "No data to display", out)
}

func TestGenerateEventSummary(t *testing.T) {
	out := NewGenerator().GenerateEventSummary(sampleLog())
	assert.Contains(t, out, "Total Events: 8")
	assert.Contains(t, out, "Total Cases: 3")
	assert.Contains(t, out, "  - Order Received: 3")
	assert.Contains(t, out, "  - Payment Confirmed: 2")
	assert.NotContains(t, out, "Rework Started")
	// CASE-1 40m, CASE-2 1h0m, CASE-3 1h0m
	assert.Contains(t, out, "Average Case Duration: 53m")
}

func TestGenerateLosses(t *testing.T) {
	out := NewGenerator().GenerateLosses(sampleLog())
	assert.Contains(t, out, "CASE-2 Order Not Picked Up: 10.00")
	assert.Contains(t, out, "CASE-3 Returned to Store: 7.50")
	assert.Contains(t, out, "Total Losses: 2 events, 17.50 of 30.00 charged")

	out = NewGenerator().GenerateLosses(sampleLog()[:2])
	assert.Contains(t, out, "No losses!")
}

func TestGenerateDetailedTimeline(t *testing.T) {
	out := NewGenerator().GenerateDetailedTimeline(sampleLog(), 3)
	assert.Contains(t, out, "(showing first 3 events)")
	assert.Contains(t, out, "[2024-01-01 11:05:00] + CASE-1   Order Received (System)")
	assert.Contains(t, out, "... and 5 more events")
	assert.Equal(t, 3, strings.Count(out, "] "))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "12m", FormatDuration(12*time.Minute))
	assert.Equal(t, "2h5m", FormatDuration(125*time.Minute))
}
