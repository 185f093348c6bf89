package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Action is a lifecycle verb applied to an order.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionProcess Action = "process"
	ActionShip    Action = "ship"
	ActionDeliver Action = "deliver"
	ActionCancel  Action = "cancel"
)

type transitionKey struct {
	from Status
	act  Action
}

// transitions is the full set of legal (state, action) pairs.
// Anything not listed is rejected with InvalidTransitionError.
var transitions = map[transitionKey]Status{
	{StatusPending, ActionConfirm}:   StatusConfirmed,
	{StatusConfirmed, ActionProcess}: StatusProcessing,
	{StatusProcessing, ActionShip}:   StatusShipped,
	{StatusShipped, ActionDeliver}:   StatusDelivered,
	{StatusPending, ActionCancel}:    StatusCancelled,
	{StatusConfirmed, ActionCancel}:  StatusCancelled,
}

// Next resolves the status an action leads to from the given one.
func Next(from Status, act Action) (Status, error) {
	to, ok := transitions[transitionKey{from, act}]
	if !ok {
		return "", &InvalidTransitionError{From: from, Action: act}
	}
	return to, nil
}

// CancellableStatuses lists the states an order may be cancelled from.
func CancellableStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

type Order struct {
	ID                string
	OrderNumber       string
	UserID            int64
	ShippingAddressID *int64
	BillingAddressID  *int64
	Status            Status
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	Tax               decimal.Decimal
	Total             decimal.Decimal
	Notes             string
	Items             []OrderItem
	OrderedAt         time.Time
	ConfirmedAt       *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem is the historical record of what was sold: name and price are
// snapshotted at checkout and never follow later product edits.
type OrderItem struct {
	ID           int64
	OrderID      string
	ProductID    int64
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
	Subtotal     decimal.Decimal
}

// Transition applies an action in memory: status flips and the entry
// timestamp for the new status is set, but only if it was never set before.
// Persistence guards the same rule with a conditional UPDATE.
func (o *Order) Transition(act Action, now time.Time) error {
	to, err := Next(o.Status, act)
	if err != nil {
		return err
	}
	o.Status = to
	switch to {
	case StatusConfirmed:
		if o.ConfirmedAt == nil {
			o.ConfirmedAt = &now
		}
	case StatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	case StatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	}
	return nil
}
