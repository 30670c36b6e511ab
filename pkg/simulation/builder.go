package simulation

import (
	"fmt"
	"time"

	"github.com/pizzalog/eventgen/pkg/config"
)

// resourcePools are the read-only sets resources are drawn from. Nothing is
// reserved: two overlapping events may name the same chef or oven.
type resourcePools struct {
	system        []string
	cashier       []string
	chef          []string
	driver        []string
	ovens         []string
	drinkStations []string
}

func newResourcePools(cfg *config.Config) resourcePools {
	return resourcePools{
		system:        []string{"System"},
		cashier:       []string{"Cashier 1", "Cashier 2"},
		chef:          cfg.ActivePizzaChefs,
		driver:        numbered("Driver", cfg.ActiveDrivers),
		ovens:         numbered("Oven", cfg.ActiveOvens),
		drinkStations: []string{"Drink Station 1", "Drink Station 2"},
	}
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", prefix, i+1)
	}
	return out
}

// caseBuilder accumulates the events of one case in generation order
type caseBuilder struct {
	caseID string
	rng    Source
	pools  *resourcePools
	events []OrderEvent
}

func (b *caseBuilder) emit(ev OrderEvent) {
	ev.CaseID = b.caseID
	b.events = append(b.events, ev)
}

func (b *caseBuilder) station(category config.Category) string {
	if category == config.CategoryDrink {
		return pick(b.rng, b.pools.drinkStations)
	}
	return pick(b.rng, b.pools.ovens)
}

// prepare emits the start and completion of one item. Each item gets its own
// preparation start 3 to 8 minutes after the order.
func (b *caseBuilder) prepare(orderTime time.Time, item config.MenuItem) {
	start := orderTime.Add(time.Duration((b.rng.Float64()*5 + 3) * float64(time.Minute)))

	b.emit(OrderEvent{
		Activity:  ActivityPreparationStarted,
		Timestamp: offset(b.rng, start, 1, 3),
		Resource:  pick(b.rng, b.pools.chef),
		Item:      item.Name,
		Station:   b.station(item.Category),
		Status:    "Started",
	})
	b.emit(OrderEvent{
		Activity:  ActivityPreparationCompleted,
		Timestamp: offset(b.rng, start, item.PrepTime-2, item.PrepTime),
		Resource:  pick(b.rng, b.pools.chef),
		Item:      item.Name,
		Status:    "Completed",
	})
}

func (b *caseBuilder) qualityCheck(at time.Time, failed bool) {
	ev := OrderEvent{
		Activity:  ActivityQualityCheck,
		Timestamp: offset(b.rng, at, 2, 4),
		Resource:  pick(b.rng, b.pools.chef),
		Status:    "Passed",
		Details:   "Meets quality standards",
	}
	if failed {
		ev.Status = "Failed"
		ev.Details = "Quality standards not met"
	}
	b.emit(ev)
}

// rework emits the single rework pass and the forced passing re-check
func (b *caseBuilder) rework(qualityCheckAt time.Time) {
	reworkAt := qualityCheckAt.Add(5 * time.Minute)

	b.emit(OrderEvent{
		Activity:  ActivityReworkStarted,
		Timestamp: offset(b.rng, reworkAt, 1, 3),
		Resource:  pick(b.rng, b.pools.chef),
		Status:    "Rework",
	})
	b.emit(OrderEvent{
		Activity:  ActivityReworkCompleted,
		Timestamp: offset(b.rng, reworkAt, 8, 12),
		Resource:  pick(b.rng, b.pools.chef),
		Status:    "Completed",
	})
	b.emit(OrderEvent{
		Activity:  ActivityQualityCheck,
		Timestamp: offset(b.rng, reworkAt, 13, 15),
		Resource:  pick(b.rng, b.pools.chef),
		Status:    "Passed",
		Details:   "Meets quality standards after rework",
	})
}

// notPickedUp books the whole order as a loss
func (b *caseBuilder) notPickedUp(qualityCheckAt time.Time, total float64) {
	b.emit(OrderEvent{
		Activity:  ActivityOrderNotPickedUp,
		Timestamp: offset(b.rng, qualityCheckAt, 45, 60),
		Resource:  pick(b.rng, b.pools.system),
		Cost:      total,
		Status:    "Not Picked Up",
		Details:   "Customer did not pick up order",
	})
}

func (b *caseBuilder) outForDelivery(qualityCheckAt time.Time) {
	b.emit(OrderEvent{
		Activity:  ActivityOutForDelivery,
		Timestamp: offset(b.rng, qualityCheckAt, 5, 8),
		Resource:  pick(b.rng, b.pools.driver),
		Status:    "Started",
	})
}

func (b *caseBuilder) deliver(qualityCheckAt time.Time) {
	b.outForDelivery(qualityCheckAt)
	b.emit(OrderEvent{
		Activity:  ActivityDelivered,
		Timestamp: offset(b.rng, qualityCheckAt, 15, 30),
		Resource:  pick(b.rng, b.pools.driver),
		Status:    "Completed",
		Details:   "Successful delivery",
	})
}

// deliverAfterFailure emits the failed first attempt, the address recovery
// and the second attempt. The failure instant anchors everything after it;
// Customer Contacted may land before Returned to Store.
func (b *caseBuilder) deliverAfterFailure(qualityCheckAt time.Time, total float64) {
	b.outForDelivery(qualityCheckAt)

	failedAt := offset(b.rng, qualityCheckAt, 25, 35)
	b.emit(OrderEvent{
		Activity:  ActivityDeliveryFailed,
		Timestamp: failedAt,
		Resource:  pick(b.rng, b.pools.driver),
		Details:   "Unable to locate delivery address",
	})
	b.emit(OrderEvent{
		Activity:  ActivityReturnedToStore,
		Timestamp: offset(b.rng, failedAt, 10, 15),
		Resource:  pick(b.rng, b.pools.driver),
		Cost:      total * 0.5,
		Status:    "Failed Delivery",
	})
	b.emit(OrderEvent{
		Activity:  ActivityCustomerContacted,
		Timestamp: offset(b.rng, failedAt, 5, 10),
		Resource:  pick(b.rng, b.pools.system),
		Details:   "Customer contacted for address verification",
	})

	verifyAt := failedAt.Add(10 * time.Minute)
	b.emit(OrderEvent{
		Activity:  ActivityAddressVerificationStarted,
		Timestamp: offset(b.rng, verifyAt, 1, 3),
		Resource:  pick(b.rng, b.pools.system),
		Status:    "Started",
		Details:   "Verifying delivery address details",
	})
	b.emit(OrderEvent{
		Activity:  ActivityGPSLocationVerified,
		Timestamp: offset(b.rng, verifyAt, 3, 5),
		Resource:  pick(b.rng, b.pools.system),
		Status:    "Completed",
		Details:   "GPS coordinates confirmed for delivery location",
	})
	b.emit(OrderEvent{
		Activity:  ActivityAddressVerificationCompleted,
		Timestamp: offset(b.rng, verifyAt, 5, 8),
		Resource:  pick(b.rng, b.pools.system),
		Status:    "Completed",
		Details:   "Delivery address verified and confirmed",
	})

	secondAttemptAt := verifyAt.Add(15 * time.Minute)
	b.emit(OrderEvent{
		Activity:  ActivityOutForDelivery,
		Timestamp: offset(b.rng, secondAttemptAt, 1, 5),
		Resource:  pick(b.rng, b.pools.driver),
		Status:    "Second Attempt",
		Details:   "Delivery attempt with verified address",
	})
	b.emit(OrderEvent{
		Activity:  ActivityDelivered,
		Timestamp: offset(b.rng, secondAttemptAt, 15, 25),
		Resource:  pick(b.rng, b.pools.driver),
		Status:    "Completed",
		Details:   "Successful delivery on second attempt",
	})
}
