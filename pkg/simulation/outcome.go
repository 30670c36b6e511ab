package simulation

const (
	notPickedUpRate     = 0.02
	deliveryFailureRate = 0.03
	cardPaymentRate     = 0.7
)

// Outcome is the terminal path a case takes after its quality check
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	OutcomeDeliveredAfterFailure
	OutcomeNotPickedUp
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDeliveredAfterFailure:
		return "delivered-after-failure"
	case OutcomeNotPickedUp:
		return "not-picked-up"
	default:
		return "unknown"
	}
}

// CasePlan fixes the branching shape of a case before any timestamp is drawn
type CasePlan struct {
	Rework  bool
	Outcome Outcome
}

// PlanCase draws the rework, skip-pickup and delivery-failure decisions.
// Rework is only possible when quality checks are enabled; delivery failure
// is only drawn when the order is picked up.
func PlanCase(rng Source, qualityCheckEnabled bool, reworkRate float64) CasePlan {
	plan := CasePlan{Outcome: OutcomeDelivered}

	if qualityCheckEnabled {
		plan.Rework = rng.Float64()*100 < reworkRate
	}

	switch {
	case chance(rng, notPickedUpRate):
		plan.Outcome = OutcomeNotPickedUp
	case chance(rng, deliveryFailureRate):
		plan.Outcome = OutcomeDeliveredAfterFailure
	}

	return plan
}

// EventCount is the number of events a case with n items produces under this plan
func (p CasePlan) EventCount(n int) int {
	// received, paid, two per item, quality check
	count := 2 + 2*n + 1
	if p.Rework {
		count += 3
	}
	switch p.Outcome {
	case OutcomeDelivered:
		count += 2
	case OutcomeDeliveredAfterFailure:
		count += 9
	case OutcomeNotPickedUp:
		count++
	}
	return count
}
