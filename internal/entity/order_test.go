package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	cases := []struct {
		from Status
		act  Action
		want Status
		ok   bool
	}{
		{StatusPending, ActionConfirm, StatusConfirmed, true},
		{StatusConfirmed, ActionProcess, StatusProcessing, true},
		{StatusProcessing, ActionShip, StatusShipped, true},
		{StatusShipped, ActionDeliver, StatusDelivered, true},
		{StatusPending, ActionCancel, StatusCancelled, true},
		{StatusConfirmed, ActionCancel, StatusCancelled, true},

		{StatusPending, ActionShip, "", false},
		{StatusPending, ActionDeliver, "", false},
		{StatusProcessing, ActionCancel, "", false},
		{StatusShipped, ActionCancel, "", false},
		{StatusDelivered, ActionCancel, "", false},
		{StatusCancelled, ActionConfirm, "", false},
		{StatusDelivered, ActionDeliver, "", false},
		{StatusConfirmed, ActionConfirm, "", false},
	}

	for _, tc := range cases {
		got, err := Next(tc.from, tc.act)
		if tc.ok {
			require.NoError(t, err, "%s + %s", tc.from, tc.act)
			assert.Equal(t, tc.want, got)
			continue
		}
		var ite *InvalidTransitionError
		require.ErrorAs(t, err, &ite, "%s + %s", tc.from, tc.act)
		assert.Equal(t, tc.from, ite.From)
		assert.Equal(t, tc.act, ite.Action)
	}
}

func TestTransitionStampsTimestampsOnce(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	o := &Order{Status: StatusPending}
	require.NoError(t, o.Transition(ActionConfirm, first))
	assert.Equal(t, StatusConfirmed, o.Status)
	require.NotNil(t, o.ConfirmedAt)
	assert.Equal(t, first, *o.ConfirmedAt)

	// A timestamp set earlier survives later transitions into the same state.
	o.Status = StatusPending
	later := first.Add(time.Hour)
	require.NoError(t, o.Transition(ActionConfirm, later))
	assert.Equal(t, first, *o.ConfirmedAt)
}

func TestTransitionFullLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusPending}

	for _, act := range []Action{ActionConfirm, ActionProcess, ActionShip, ActionDeliver} {
		require.NoError(t, o.Transition(act, now))
	}
	assert.Equal(t, StatusDelivered, o.Status)
	assert.NotNil(t, o.ConfirmedAt)
	assert.NotNil(t, o.ShippedAt)
	assert.NotNil(t, o.DeliveredAt)
	assert.Nil(t, o.CancelledAt)
}

func TestCancellableStatuses(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusPending, StatusConfirmed}, CancellableStatuses())
}
