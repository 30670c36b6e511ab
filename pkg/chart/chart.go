package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/pizzalog/eventgen/pkg/simulation"
	"github.com/robfig/cron/v3"
)

const (
	chartWidth  = 80
	chartHeight = 12
)

// DefaultBucketSchedule buckets arrivals hourly
const DefaultBucketSchedule = "0 * * * *"

// Generator generates ASCII reports over a generated event log
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

// Bucket counts order arrivals between two consecutive schedule fires
type Bucket struct {
	Start  time.Time
	End    time.Time
	Orders int
}

// BucketArrivals groups Order Received events into buckets whose boundaries
// are the fire times of a standard five-field cron schedule. The first bucket
// opens at midnight of the first arrival's day.
func BucketArrivals(events []simulation.OrderEvent, schedule string) ([]Bucket, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket schedule %q: %w", schedule, err)
	}

	arrivals := []time.Time{}
	for _, event := range events {
		if event.Activity == simulation.ActivityOrderReceived {
			arrivals = append(arrivals, event.Timestamp)
		}
	}
	if len(arrivals) == 0 {
		return nil, nil
	}

	first := arrivals[0]
	last := arrivals[len(arrivals)-1]
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())

	buckets := []Bucket{}
	for current := start; !current.After(last); {
		next := sched.Next(current)
		if next.IsZero() {
			break
		}
		buckets = append(buckets, Bucket{Start: current, End: next})
		current = next
	}
	if len(buckets) == 0 {
		return nil, fmt.Errorf("bucket schedule %q never fires", schedule)
	}

	index := 0
	for _, at := range arrivals {
		for index < len(buckets)-1 && !at.Before(buckets[index].End) {
			index++
		}
		buckets[index].Orders++
	}

	return buckets, nil
}

// GenerateDemandChart plots order arrivals per bucket over the simulation window
func (g *Generator) GenerateDemandChart(events []simulation.OrderEvent, schedule string) (string, error) {
	buckets, err := BucketArrivals(events, schedule)
	if err != nil {
		return "", err
	}
	if len(buckets) == 0 {
		return "No data to display", nil
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\n")
	sb.WriteString("Order Arrivals Over Time\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	// Compress buckets into columns, keeping the busiest bucket of each column
	columns := min(len(buckets), g.width-6)
	peaks := make([]int, columns)
	busiest := buckets[0]
	for i, bucket := range buckets {
		col := i * columns / len(buckets)
		peaks[col] = max(peaks[col], bucket.Orders)
		if bucket.Orders > busiest.Orders {
			busiest = bucket
		}
	}

	rows := min(g.height, max(busiest.Orders, 1))
	for row := rows; row >= 1; row-- {
		threshold := float64(row) / float64(rows) * float64(busiest.Orders)
		sb.WriteString(fmt.Sprintf("%3d |", int(threshold+0.5)))
		for _, peak := range peaks {
			if peak > 0 && float64(peak) >= threshold {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	// X-axis
	sb.WriteString("    +")
	sb.WriteString(strings.Repeat("-", columns))
	sb.WriteString("\n")

	// X-axis labels - mark days, thinned out so markers never overlap
	startTime := buckets[0].Start
	totalDuration := buckets[len(buckets)-1].End.Sub(startTime)

	labelLine := make([]rune, columns)
	for i := range labelLine {
		labelLine[i] = ' '
	}

	days := int(totalDuration / (24 * time.Hour))
	step := 1
	if maxMarkers := columns / 5; maxMarkers > 0 && days/step > maxMarkers {
		step = (days + maxMarkers - 1) / maxMarkers
	}
	for day := 0; day <= days; day += step {
		position := 0
		if totalDuration > 0 {
			position = int(float64(time.Duration(day)*24*time.Hour) / float64(totalDuration) * float64(columns))
		}

		marker := fmt.Sprintf("%dd", day)
		if position+len(marker) <= columns {
			for i, ch := range marker {
				labelLine[position+i] = ch
			}
		}
	}

	sb.WriteString("     ")
	sb.WriteString(string(labelLine))
	sb.WriteString("\n")

	// Legend
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Buckets: %d (schedule %q), starting %s\n", len(buckets), schedule, startTime.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Busiest bucket: %s with %d orders\n", busiest.Start.Format("2006-01-02 15:04"), busiest.Orders))
	sb.WriteString("\n")

	return sb.String(), nil
}

// GenerateEventSummary generates a summary of events
func (g *Generator) GenerateEventSummary(events []simulation.OrderEvent) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Event Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	// Group events by activity
	eventsByActivity := make(map[simulation.Activity]int)
	firstSeen := make(map[string]time.Time)
	lastSeen := make(map[string]time.Time)
	for _, event := range events {
		eventsByActivity[event.Activity]++
		if first, ok := firstSeen[event.CaseID]; !ok || event.Timestamp.Before(first) {
			firstSeen[event.CaseID] = event.Timestamp
		}
		if event.Timestamp.After(lastSeen[event.CaseID]) {
			lastSeen[event.CaseID] = event.Timestamp
		}
	}

	sb.WriteString(fmt.Sprintf("Total Events: %d\n", len(events)))
	sb.WriteString(fmt.Sprintf("Total Cases: %d\n", len(firstSeen)))
	for _, activity := range simulation.Activities {
		if count := eventsByActivity[activity]; count > 0 {
			sb.WriteString(fmt.Sprintf("  - %s: %d\n", activity, count))
		}
	}

	if len(firstSeen) > 0 {
		var span time.Duration
		for caseID, first := range firstSeen {
			span += lastSeen[caseID].Sub(first)
		}
		sb.WriteString(fmt.Sprintf("Average Case Duration: %s\n", FormatDuration(span/time.Duration(len(firstSeen)))))
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateLosses lists the events that book a loss
func (g *Generator) GenerateLosses(events []simulation.OrderEvent) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Losses\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	revenue := 0.0
	lost := 0.0
	count := 0
	for _, event := range events {
		switch event.Activity {
		case simulation.ActivityPaymentConfirmed:
			revenue += event.Cost
		case simulation.ActivityOrderNotPickedUp, simulation.ActivityReturnedToStore:
			timestamp := event.Timestamp.Format("2006-01-02 15:04:05")
			sb.WriteString(fmt.Sprintf("[%s] %s %s: %.2f\n", timestamp, event.CaseID, event.Activity, event.Cost))
			lost += event.Cost
			count++
		}
	}

	if count == 0 {
		sb.WriteString("No losses!\n")
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total Losses: %d events, %.2f of %.2f charged\n", count, lost, revenue))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateDetailedTimeline generates a detailed timeline of events
func (g *Generator) GenerateDetailedTimeline(events []simulation.OrderEvent, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Detailed Timeline")
	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(events)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		event := events[i]
		timestamp := event.Timestamp.Format("2006-01-02 15:04:05")

		typeIcon := " "
		switch event.Activity {
		case simulation.ActivityOrderReceived:
			typeIcon = "+"
		case simulation.ActivityDelivered:
			typeIcon = "-"
		case simulation.ActivityReworkStarted, simulation.ActivityReworkCompleted:
			typeIcon = "R"
		case simulation.ActivityDeliveryFailed, simulation.ActivityReturnedToStore:
			typeIcon = "F"
		case simulation.ActivityOrderNotPickedUp:
			typeIcon = "!"
		}

		line := fmt.Sprintf("[%s] %s %-8s %s (%s)", timestamp, typeIcon, event.CaseID, event.Activity, event.Resource)
		if event.Item != "" {
			line += " " + event.Item
		}
		sb.WriteString(line + "\n")
	}

	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(events)-limit))
	}

	sb.WriteString("\n")

	return sb.String()
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
