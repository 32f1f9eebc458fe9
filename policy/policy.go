// Package policy holds the authorization decisions for the API in one
// place, so every role or ownership rule is deliberate and visible.
package policy

import (
	"errors"
	"fmt"

	"github.com/7499karthik/suvidhaa/models"
)

var (
	ErrForbidden         = errors.New("not allowed to perform this action")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Scope describes which slice of the booking ledger a caller may list.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeProviderOnly
)

// BookingListScope decides what the full booking listing shows a caller.
// Providers get only the bookings addressed to them. Every other
// authenticated caller deliberately sees the complete ledger; the listing is
// an account-wide view, not an admin surface.
func BookingListScope(role models.Role) Scope {
	if role == models.RoleProvider {
		return ScopeProviderOnly
	}
	return ScopeAll
}

// CanChangeBookingStatus decides whether a caller may move a booking to the
// next status. The provider who owns the booking may apply any legal
// transition. The customer who placed it may only cancel. Anyone else is
// refused. The transition itself is then checked against the booking
// lifecycle.
//
// callerProviderID is the ID of the caller's Provider record, or 0 when the
// caller has none.
func CanChangeBookingStatus(callerUserID, callerProviderID uint, b *models.Booking, next models.BookingStatus) error {
	switch {
	case callerProviderID != 0 && b.ProviderID == callerProviderID:
		// Provider owner may apply any legal transition.
	case b.CustomerID == callerUserID:
		if next != models.StatusCancelled {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}

	if err := b.CanTransition(next); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return nil
}

// CanListContacts decides who may read the contact inbox. Any authenticated
// account may: intake triage is deliberately shared across every signed-in
// account rather than gated to a role.
func CanListContacts(role models.Role) bool {
	return true
}
