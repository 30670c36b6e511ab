package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/pizzalog/eventgen/pkg/config"
)

// ErrEmptyCatalog is returned when there is nothing to order
var ErrEmptyCatalog = errors.New("menu catalog is empty: no orders can be formed")

// Share of a day's volume that falls in peak windows
const peakHourRatio = 0.4

// Simulator generates the event log for one configuration and catalog
type Simulator struct {
	config *config.Config
	items  []config.MenuItem
	rng    Source
	now    func() time.Time
	logger *slog.Logger

	pools  resourcePools
	events []OrderEvent
	cases  []CaseRecord
}

// Option customizes a Simulator
type Option func(*Simulator)

// WithRand routes every random draw through rng
func WithRand(rng Source) Option {
	return func(s *Simulator) { s.rng = rng }
}

// WithClock sets the wall clock consulted in wallclock weekend mode
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// NewSimulator validates its inputs and creates a new simulator. Nothing is
// generated when the configuration or the catalog is invalid.
func NewSimulator(cfg *config.Config, items []config.MenuItem, opts ...Option) (*Simulator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is required", config.ErrInvalidConfig)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	validated := *cfg
	if err := validated.Validate(); err != nil {
		return nil, err
	}
	catalog := slices.Clone(items)
	if err := config.ValidateMenu(catalog); err != nil {
		return nil, err
	}

	s := &Simulator{
		config: &validated,
		items:  catalog,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
		pools:  newResourcePools(&validated),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewSource(validated.Seed)
	}

	return s, nil
}

// TotalCases scales only the peak share of the nominal volume by the multiplier
func TotalCases(nominal int, multiplier float64) int {
	regular := int(math.Floor(float64(nominal) * (1 - peakHourRatio)))
	peak := int(math.Floor(float64(nominal) * peakHourRatio * multiplier))
	return regular + peak
}

// Run executes the generation. The context is checked between cases; a
// cancelled run keeps nothing.
func (s *Simulator) Run(ctx context.Context) error {
	total := TotalCases(s.config.NumberOfCases, s.config.PeakHourMultiplier)
	if total == 0 {
		s.logger.Warn("configuration yields no cases", "number_of_cases", s.config.NumberOfCases)
	}

	events := []OrderEvent{}
	cases := make([]CaseRecord, 0, total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation aborted after %d of %d cases: %w", i, total, err)
		}

		record, caseEvents := s.generateCase(fmt.Sprintf("CASE-%d", i+1))
		events = append(events, caseEvents...)
		cases = append(cases, record)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	s.events = events
	s.cases = cases

	s.logger.Info("event log generated",
		"cases", total,
		"events", len(events),
		"start", s.config.Start,
		"end", s.config.End)

	return nil
}

// generateCase runs the per-case procedure and returns the case's events in
// generation order
func (s *Simulator) generateCase(caseID string) (CaseRecord, []OrderEvent) {
	orderTime := s.drawOrderTime()
	hour := orderTime.Hour()

	// Peak arrivals cluster earlier
	if IsPeakHour(hour) {
		orderTime = orderTime.Add(-time.Duration(s.rng.IntN(15)) * time.Minute)
	}

	weekday := s.weekendDay(orderTime)
	items := s.selectItems(hour, weekday)

	names := make([]string, len(items))
	total := 0.0
	lastPrep := 0
	for i, item := range items {
		names[i] = item.Name
		total += item.Price
		lastPrep = max(lastPrep, item.PrepTime)
	}
	total = roundCents(total)

	b := caseBuilder{caseID: caseID, rng: s.rng, pools: &s.pools}

	b.emit(OrderEvent{
		Activity:  ActivityOrderReceived,
		Timestamp: offset(s.rng, orderTime, 1, 3),
		Resource:  pick(s.rng, s.pools.system),
		Order: &OrderDetails{
			Items:       names,
			TotalAmount: total,
			Hour:        hour,
			DayOfWeek:   orderTime.Weekday(),
		},
	})

	payment := PaymentCash
	paidAt := offset(s.rng, orderTime, 2, 5)
	if chance(s.rng, cardPaymentRate) {
		payment = PaymentCard
	}
	b.emit(OrderEvent{
		Activity:      ActivityPaymentConfirmed,
		Timestamp:     paidAt,
		Resource:      pick(s.rng, s.pools.cashier),
		Cost:          total,
		PaymentMethod: payment,
	})

	for _, item := range items {
		b.prepare(orderTime, item)
	}

	qualityCheckAt := orderTime.Add(time.Duration(lastPrep+5) * time.Minute)
	plan := PlanCase(s.rng, s.config.QualityCheckEnabled, s.config.ReworkRate)

	b.qualityCheck(qualityCheckAt, plan.Rework)
	if plan.Rework {
		b.rework(qualityCheckAt)
	}

	switch plan.Outcome {
	case OutcomeNotPickedUp:
		b.notPickedUp(qualityCheckAt, total)
	case OutcomeDeliveredAfterFailure:
		b.deliverAfterFailure(qualityCheckAt, total)
	default:
		b.deliver(qualityCheckAt)
	}

	record := CaseRecord{
		CaseID:     caseID,
		OrderTime:  orderTime,
		Items:      names,
		Total:      total,
		Plan:       plan,
		EventCount: len(b.events),
	}
	return record, b.events
}

// drawOrderTime picks a uniformly random instant in the simulation window
func (s *Simulator) drawOrderTime() time.Time {
	window := s.config.End.Sub(s.config.Start)
	return s.config.Start.Add(time.Duration(s.rng.Float64() * float64(window)))
}

// weekendDay returns the weekday that drives the weekend demand boost
func (s *Simulator) weekendDay(orderTime time.Time) time.Weekday {
	if s.config.WeekendBasis == config.WeekendBasisWallClock {
		return s.now().In(orderTime.Location()).Weekday()
	}
	return orderTime.Weekday()
}

// selectItems draws the order's items independently; repeats are allowed
func (s *Simulator) selectItems(hour int, weekday time.Weekday) []config.MenuItem {
	count := int(math.Round(s.config.AverageItemsPerOrder * (0.5 + s.rng.Float64())))
	count = max(1, count)

	weights := itemWeights(s.items, hour, weekday)
	items := make([]config.MenuItem, count)
	for i := range items {
		items[i] = PickWeighted(s.rng, weights)
	}
	return items
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetEvents returns the time-sorted event log of the last run
func (s *Simulator) GetEvents() []OrderEvent {
	return s.events
}

// GetCases returns one record per generated case, in case id order
func (s *Simulator) GetCases() []CaseRecord {
	return s.cases
}

// Config returns the validated configuration the simulator runs with
func (s *Simulator) Config() config.Config {
	return *s.config
}
