package lifecycle

import (
	"time"

	"github.com/Mangarao/aarohi-tms/internal/models"
	"github.com/shopspring/decimal"
)

// ComplaintStats are the dashboard counters, recomputed by linear scan
// whenever they are requested.
type ComplaintStats struct {
	TotalComplaints      int64 `json:"totalComplaints"`
	OpenComplaints       int64 `json:"openComplaints"`
	AssignedComplaints   int64 `json:"assignedComplaints"`
	InProgressComplaints int64 `json:"inProgressComplaints"`
	ClosedComplaints     int64 `json:"closedComplaints"`
	CancelledComplaints  int64 `json:"cancelledComplaints"`
	HighPriorityCount    int64 `json:"highPriorityComplaints"`
}

// CountComplaints tallies complaints by status and high priority.
func CountComplaints(complaints []models.Complaint) ComplaintStats {
	var s ComplaintStats
	for i := range complaints {
		s.TotalComplaints++
		switch complaints[i].Status {
		case models.StatusOpen:
			s.OpenComplaints++
		case models.StatusAssigned:
			s.AssignedComplaints++
		case models.StatusInProgress:
			s.InProgressComplaints++
		case models.StatusClosed:
			s.ClosedComplaints++
		case models.StatusCancelled:
			s.CancelledComplaints++
		}
		if complaints[i].Priority == models.PriorityHigh {
			s.HighPriorityCount++
		}
	}
	return s
}

// SumExpenses totals the amounts of the given expenses. A zero-valued amount
// contributes zero, so the sum is always well defined.
func SumExpenses(expenses []models.StaffExpense) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return total
}

// ExpenseStats summarizes one staff member's reimbursement position.
type ExpenseStats struct {
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	TotalUnpaidAmount decimal.Decimal `json:"totalUnpaidAmount"`
	TotalPaidAmount   decimal.Decimal `json:"totalPaidAmount"`
	UnpaidCount       int64           `json:"unpaidCount"`
	PaidCount         int64           `json:"paidCount"`
	TotalCount        int64           `json:"totalCount"`
}

// SumComplaintExpenses totals the amounts of the given complaint expenses.
func SumComplaintExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return total
}

// ComplaintExpenseStats summarizes complaint servicing costs for the admin
// dashboard. Recent covers expenses on or after the cutoff passed to
// CountComplaintExpenses.
type ComplaintExpenseStats struct {
	TotalExpenses        int64           `json:"totalExpenses"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	RecentExpensesCount  int64           `json:"recentExpensesCount"`
	RecentExpensesAmount decimal.Decimal `json:"recentExpensesAmount"`
}

// CountComplaintExpenses tallies complaint expenses, splitting out those
// dated on or after recentSince.
func CountComplaintExpenses(expenses []models.Expense, recentSince time.Time) ComplaintExpenseStats {
	s := ComplaintExpenseStats{
		TotalAmount:          decimal.Zero,
		RecentExpensesAmount: decimal.Zero,
	}
	for i := range expenses {
		s.TotalExpenses++
		s.TotalAmount = s.TotalAmount.Add(expenses[i].Amount)
		if !expenses[i].ExpenseDate.Before(recentSince) {
			s.RecentExpensesCount++
			s.RecentExpensesAmount = s.RecentExpensesAmount.Add(expenses[i].Amount)
		}
	}
	return s
}

// CountExpenses splits expenses into paid and unpaid totals.
func CountExpenses(expenses []models.StaffExpense) ExpenseStats {
	s := ExpenseStats{
		TotalAmount:       decimal.Zero,
		TotalUnpaidAmount: decimal.Zero,
		TotalPaidAmount:   decimal.Zero,
	}
	for i := range expenses {
		s.TotalCount++
		s.TotalAmount = s.TotalAmount.Add(expenses[i].Amount)
		if expenses[i].IsPaidByCompany {
			s.PaidCount++
			s.TotalPaidAmount = s.TotalPaidAmount.Add(expenses[i].Amount)
		} else {
			s.UnpaidCount++
			s.TotalUnpaidAmount = s.TotalUnpaidAmount.Add(expenses[i].Amount)
		}
	}
	return s
}
