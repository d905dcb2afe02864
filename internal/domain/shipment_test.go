package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShipmentStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ShipmentStatus
		to   ShipmentStatus
		want bool
	}{
		{"pending to shipped", StatusPending, StatusShipped, true},
		{"shipped to in transit", StatusShipped, StatusInTransit, true},
		{"in transit to out for delivery", StatusInTransit, StatusOutForDelivery, true},
		{"out for delivery to delivered", StatusOutForDelivery, StatusDelivered, true},
		{"pending skips to delivered", StatusPending, StatusDelivered, false},
		{"shipped back to pending", StatusShipped, StatusPending, false},
		{"pending to on hold", StatusPending, StatusOnHold, true},
		{"in transit to on hold", StatusInTransit, StatusOnHold, true},
		{"in transit to cancelled", StatusInTransit, StatusCancelled, true},
		{"on hold resumes to in transit", StatusOnHold, StatusInTransit, true},
		{"on hold to cancelled", StatusOnHold, StatusCancelled, true},
		{"delivered is terminal", StatusDelivered, StatusOnHold, false},
		{"cancelled is terminal", StatusCancelled, StatusShipped, false},
		{"no-op stays legal", StatusInTransit, StatusInTransit, true},
		{"no-op on terminal stays legal", StatusDelivered, StatusDelivered, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestShipmentStatusIsValid(t *testing.T) {
	for _, s := range []ShipmentStatus{
		StatusPending, StatusShipped, StatusInTransit, StatusOutForDelivery,
		StatusDelivered, StatusOnHold, StatusCancelled,
	} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, ShipmentStatus("Lost").IsValid())
	assert.False(t, ShipmentStatus("").IsValid())
}

func TestRoleSatisfies(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleMember))
	assert.True(t, RoleAdmin.Satisfies(RoleAdmin))
	assert.True(t, RoleMember.Satisfies(RoleMember))
	assert.False(t, RoleMember.Satisfies(RoleAdmin))
}
