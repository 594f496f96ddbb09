package booking

import "aqarat/internal/domain"

// The booking lifecycle, enforced in one place. Admin buttons in the UI are
// a convenience, not the rule: anything not listed here is rejected with
// InvalidTransitionError regardless of who asks.
//
//	pending  -> approved | rejected | cancelled
//	approved -> active | cancelled
//	active   -> completed | cancelled
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:  {domain.BookingApproved, domain.BookingRejected, domain.BookingCancelled},
	domain.BookingApproved: {domain.BookingActive, domain.BookingCancelled},
	domain.BookingActive:   {domain.BookingCompleted, domain.BookingCancelled},
}

// statusesAllowing lists every status from which the target is reachable;
// used to build conditional UPDATEs.
func statusesAllowing(to domain.BookingStatus) []domain.BookingStatus {
	var from []domain.BookingStatus
	for f, ts := range transitions {
		for _, t := range ts {
			if t == to {
				from = append(from, f)
			}
		}
	}
	return from
}
