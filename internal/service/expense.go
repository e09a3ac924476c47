package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Mangarao/aarohi-tms/internal/lifecycle"
	"github.com/Mangarao/aarohi-tms/internal/models"
)

// ExpenseService manages staff reimbursement claims. Records lock against
// owner edits once the company has paid them.
type ExpenseService struct {
	db *gorm.DB
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// ExpenseInput carries the claim fields a staff member submits.
type ExpenseInput struct {
	Amount          decimal.Decimal
	Reason          string
	ExpenseDate     *time.Time
	ComplaintNumber string
}

func (in *ExpenseInput) validate() error {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return Validationf("Amount must be greater than zero")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return Validationf("Reason is required")
	}
	return nil
}

// Create files a claim for the given staff user.
func (s *ExpenseService) Create(ctx context.Context, staffUserID uint, in ExpenseInput) (*models.StaffExpense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var staff models.User
	if err := s.db.WithContext(ctx).First(&staff, staffUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Validationf("Staff user not found with id: %d", staffUserID)
		}
		return nil, fmt.Errorf("failed to look up staff user: %w", err)
	}

	expense := models.StaffExpense{
		Amount:          in.Amount,
		Reason:          in.Reason,
		ExpenseDate:     in.ExpenseDate,
		ComplaintNumber: in.ComplaintNumber,
		Status:          models.ExpensePending,
		StaffUserID:     staff.ID,
	}
	if err := s.db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return &expense, nil
}

// Update edits a claim. Paid claims are locked.
func (s *ExpenseService) Update(ctx context.Context, id uint, in ExpenseInput) (*models.StaffExpense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !expense.Editable() {
		return nil, Validationf("Cannot edit expense that has already been paid by company")
	}

	expense.Amount = in.Amount
	expense.Reason = in.Reason
	expense.ExpenseDate = in.ExpenseDate
	expense.ComplaintNumber = in.ComplaintNumber
	if err := s.db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense, nil
}

// Delete removes a claim. Paid claims are locked.
func (s *ExpenseService) Delete(ctx context.Context, id uint) error {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !expense.Editable() {
		return Validationf("Cannot delete expense that has already been paid by company")
	}
	if err := s.db.WithContext(ctx).Delete(expense).Error; err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// Get returns one claim with its owner preloaded.
func (s *ExpenseService) Get(ctx context.Context, id uint) (*models.StaffExpense, error) {
	var expense models.StaffExpense
	if err := s.db.WithContext(ctx).Preload("StaffUser").First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &expense, nil
}

// ListByUser returns one staff member's claims, newest first. The paid
// pointer narrows to paid or unpaid claims when set.
func (s *ExpenseService) ListByUser(ctx context.Context, staffUserID uint, paid *bool) ([]models.StaffExpense, error) {
	q := s.db.Where("staff_user_id = ?", staffUserID)
	if paid != nil {
		q = q.Where("is_paid_by_company = ?", *paid)
	}
	return s.find(ctx, q)
}

// ListUnpaid returns every unpaid claim for the admin review queue.
func (s *ExpenseService) ListUnpaid(ctx context.Context) ([]models.StaffExpense, error) {
	return s.find(ctx, s.db.Where("is_paid_by_company = ?", false))
}

// MarkPaid settles a claim: paid flag, paid date and PAID status.
func (s *ExpenseService) MarkPaid(ctx context.Context, id uint) (*models.StaffExpense, error) {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	expense.IsPaidByCompany = true
	expense.PaidDate = &now
	expense.Status = models.ExpensePaid
	if err := s.db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, fmt.Errorf("failed to mark expense paid: %w", err)
	}
	return expense, nil
}

// UpdateStatus sets the review status. PAID also settles the claim.
func (s *ExpenseService) UpdateStatus(ctx context.Context, id uint, status models.ExpenseStatus) (*models.StaffExpense, error) {
	if !status.Valid() {
		return nil, Validationf("Invalid expense status: %s", status)
	}
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.Status = status
	if status == models.ExpensePaid && !expense.IsPaidByCompany {
		now := time.Now()
		expense.IsPaidByCompany = true
		expense.PaidDate = &now
	}
	if err := s.db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, fmt.Errorf("failed to update expense status: %w", err)
	}
	return expense, nil
}

// Clear is the staff acknowledgement that a paid reimbursement was received.
func (s *ExpenseService) Clear(ctx context.Context, id uint) (*models.StaffExpense, error) {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !expense.IsPaidByCompany {
		return nil, Validationf("Cannot clear an expense that has not been paid yet")
	}
	expense.Status = models.ExpenseCleared
	if err := s.db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, fmt.Errorf("failed to clear expense: %w", err)
	}
	return expense, nil
}

// SearchByComplaintNumber returns claims referencing a complaint number,
// substring match, case-insensitive.
func (s *ExpenseService) SearchByComplaintNumber(ctx context.Context, complaintNumber string) ([]models.StaffExpense, error) {
	like := "%" + strings.ToLower(complaintNumber) + "%"
	return s.find(ctx, s.db.Where("LOWER(complaint_number) LIKE ?", like))
}

// ListByDateRange returns claims whose expense date falls inside [start, end].
func (s *ExpenseService) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.StaffExpense, error) {
	return s.find(ctx, s.db.Where("expense_date BETWEEN ? AND ?", start, end))
}

// StatsForUser totals one staff member's claims via the shared aggregation.
func (s *ExpenseService) StatsForUser(ctx context.Context, staffUserID uint) (*lifecycle.ExpenseStats, error) {
	expenses, err := s.ListByUser(ctx, staffUserID, nil)
	if err != nil {
		return nil, err
	}
	stats := lifecycle.CountExpenses(expenses)
	return &stats, nil
}

func (s *ExpenseService) find(ctx context.Context, q *gorm.DB) ([]models.StaffExpense, error) {
	var expenses []models.StaffExpense
	if err := q.WithContext(ctx).
		Preload("StaffUser").
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}
