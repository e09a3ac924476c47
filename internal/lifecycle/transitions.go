// Package lifecycle holds the pure complaint-domain rules that the rest of
// the application shares: the status transition table, filter composition,
// schedule-date normalization, mobile number handling and derived statistics.
// Nothing in this package touches the database or the network.
package lifecycle

import (
	"github.com/Mangarao/aarohi-tms/internal/models"
)

// staffTransitions is the successor table for staff-initiated status changes.
// OPEN complaints move forward only through assignment, and CLOSED/CANCELLED
// are terminal, so none of those states offers a staff transition.
var staffTransitions = map[models.Status][]models.Status{
	models.StatusOpen:       {},
	models.StatusAssigned:   {models.StatusInProgress},
	models.StatusInProgress: {models.StatusClosed},
	models.StatusClosed:     {},
	models.StatusCancelled:  {},
}

// AvailableTransitions returns the statuses a staff actor may move a
// complaint to from the given state. The returned slice is a copy.
func AvailableTransitions(from models.Status) []models.Status {
	next, ok := staffTransitions[from]
	if !ok {
		return nil
	}
	out := make([]models.Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether a staff actor may move a complaint from one
// status to another.
func CanTransition(from, to models.Status) bool {
	for _, s := range staffTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
