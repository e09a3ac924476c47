package lifecycle

import (
	"strings"

	"github.com/Mangarao/aarohi-tms/internal/models"
)

// Filter is a set of optional complaint predicates. Zero-valued fields are
// not applied; the populated ones combine with logical AND.
type Filter struct {
	Search          string
	Status          models.Status
	Priority        models.Priority
	ComplaintType   models.ComplaintType
	AssignedStaffID uint
}

// Empty reports whether no predicate is set.
func (f Filter) Empty() bool {
	return f.Search == "" && f.Status == "" && f.Priority == "" &&
		f.ComplaintType == "" && f.AssignedStaffID == 0
}

// Matches reports whether a single complaint satisfies every populated
// predicate. Text search is case-insensitive and ORs across customer name,
// mobile number, problem description and machine name/model.
func (f Filter) Matches(c *models.Complaint) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.ComplaintType != "" && c.ComplaintType != f.ComplaintType {
		return false
	}
	if f.AssignedStaffID != 0 {
		if c.AssignedStaffID == nil || *c.AssignedStaffID != f.AssignedStaffID {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.CustomerName), q) &&
			!strings.Contains(c.MobileNumber, f.Search) &&
			!strings.Contains(strings.ToLower(c.ProblemDescription), q) &&
			!strings.Contains(strings.ToLower(c.MachineNameModel), q) {
			return false
		}
	}
	return true
}

// Apply returns the complaints matching the filter, preserving input order.
// An empty filter returns the input slice unchanged.
func (f Filter) Apply(complaints []models.Complaint) []models.Complaint {
	if f.Empty() {
		return complaints
	}
	out := make([]models.Complaint, 0, len(complaints))
	for i := range complaints {
		if f.Matches(&complaints[i]) {
			out = append(out, complaints[i])
		}
	}
	return out
}
