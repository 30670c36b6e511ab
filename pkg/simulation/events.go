package simulation

import (
	"time"
)

// Activity is the business step an event records
type Activity string

const (
	ActivityOrderReceived                Activity = "Order Received"
	ActivityPaymentConfirmed             Activity = "Payment Confirmed"
	ActivityPreparationStarted           Activity = "Preparation Started"
	ActivityPreparationCompleted         Activity = "Preparation Completed"
	ActivityQualityCheck                 Activity = "Quality Check"
	ActivityReworkStarted                Activity = "Rework Started"
	ActivityReworkCompleted              Activity = "Rework Completed"
	ActivityOutForDelivery               Activity = "Out for Delivery"
	ActivityDelivered                    Activity = "Delivered"
	ActivityDeliveryFailed               Activity = "Delivery Failed - Address Not Found"
	ActivityReturnedToStore              Activity = "Returned to Store"
	ActivityCustomerContacted            Activity = "Customer Contacted"
	ActivityAddressVerificationStarted   Activity = "Address Verification Started"
	ActivityGPSLocationVerified          Activity = "GPS Location Verified"
	ActivityAddressVerificationCompleted Activity = "Address Verification Completed"
	ActivityOrderNotPickedUp             Activity = "Order Not Picked Up"
)

// Activities lists the full vocabulary in lifecycle order
var Activities = []Activity{
	ActivityOrderReceived,
	ActivityPaymentConfirmed,
	ActivityPreparationStarted,
	ActivityPreparationCompleted,
	ActivityQualityCheck,
	ActivityReworkStarted,
	ActivityReworkCompleted,
	ActivityOutForDelivery,
	ActivityDelivered,
	ActivityDeliveryFailed,
	ActivityReturnedToStore,
	ActivityCustomerContacted,
	ActivityAddressVerificationStarted,
	ActivityGPSLocationVerified,
	ActivityAddressVerificationCompleted,
	ActivityOrderNotPickedUp,
}

// PaymentMethod is how a customer settled the order
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// TimestampLayout is the ISO-8601 rendering used by every exporter
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// OrderEvent is one row of the generated event log
type OrderEvent struct {
	CaseID    string    `json:"caseId"`
	Activity  Activity  `json:"activity"`
	Timestamp time.Time `json:"timestamp"`
	Resource  string    `json:"resource"`
	Cost      float64   `json:"cost"`
	Item      string    `json:"item,omitempty"`
	Station   string    `json:"station,omitempty"`
	Status    string    `json:"status,omitempty"`
	Details   string    `json:"details,omitempty"`

	// Order is only set on Order Received
	Order *OrderDetails `json:"orderDetails,omitempty"`
	// PaymentMethod is only set on Payment Confirmed
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// OrderDetails summarizes the order a case was generated for
type OrderDetails struct {
	Items       []string     `json:"items"`
	TotalAmount float64      `json:"totalAmount"`
	Hour        int          `json:"hour"`
	DayOfWeek   time.Weekday `json:"dayOfWeek"`
}

// CaseRecord describes how a single case was generated
type CaseRecord struct {
	CaseID     string
	OrderTime  time.Time
	Items      []string
	Total      float64
	Plan       CasePlan
	EventCount int
}
