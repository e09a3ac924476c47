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

// ComplaintExpenseService tracks costs incurred while servicing complaints:
// spare parts, travel, vendor charges. Every record is hard-linked to the
// complaint it was spent on.
type ComplaintExpenseService struct {
	db *gorm.DB
}

// NewComplaintExpenseService creates a ComplaintExpenseService.
func NewComplaintExpenseService(db *gorm.DB) *ComplaintExpenseService {
	return &ComplaintExpenseService{db: db}
}

// ComplaintExpenseInput carries the editable expense fields. The complaint
// link and the recording user are fixed at creation and never change.
type ComplaintExpenseInput struct {
	Description   string
	Amount        decimal.Decimal
	ReceiptNumber string
	VendorName    string
	Notes         string
}

func (in *ComplaintExpenseInput) validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return Validationf("Description is required")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return Validationf("Amount must be greater than zero")
	}
	return nil
}

// Create records an expense against a complaint, stamped with the recording
// user and the current time.
func (s *ComplaintExpenseService) Create(ctx context.Context, complaintID, addedByID uint, in ComplaintExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var complaint models.Complaint
	if err := s.db.WithContext(ctx).First(&complaint, complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Validationf("Complaint not found with id: %d", complaintID)
		}
		return nil, fmt.Errorf("failed to look up complaint: %w", err)
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, addedByID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Validationf("User not found with id: %d", addedByID)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	expense := models.Expense{
		Description:   in.Description,
		Amount:        in.Amount,
		ExpenseDate:   time.Now(),
		ReceiptNumber: in.ReceiptNumber,
		VendorName:    in.VendorName,
		Notes:         in.Notes,
		ComplaintID:   complaint.ID,
		AddedByID:     &user.ID,
	}
	if err := s.db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint expense: %w", err)
	}
	return &expense, nil
}

// Update edits the descriptive fields of an expense. The complaint link,
// recording user and expense date stay as recorded.
func (s *ComplaintExpenseService) Update(ctx context.Context, id uint, in ComplaintExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.Description = in.Description
	expense.Amount = in.Amount
	expense.ReceiptNumber = in.ReceiptNumber
	expense.VendorName = in.VendorName
	expense.Notes = in.Notes
	if err := s.db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, fmt.Errorf("failed to update complaint expense: %w", err)
	}
	return expense, nil
}

// Delete removes an expense record.
func (s *ComplaintExpenseService) Delete(ctx context.Context, id uint) error {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(expense).Error; err != nil {
		return fmt.Errorf("failed to delete complaint expense: %w", err)
	}
	return nil
}

// Get returns one expense with its complaint and recording user preloaded.
func (s *ComplaintExpenseService) Get(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).
		Preload("Complaint").
		Preload("AddedBy").
		First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get complaint expense: %w", err)
	}
	return &expense, nil
}

// List returns every expense, newest spend first.
func (s *ComplaintExpenseService) List(ctx context.Context) ([]models.Expense, error) {
	return s.find(ctx, s.db)
}

// ListByComplaint returns the expenses recorded against one complaint.
func (s *ComplaintExpenseService) ListByComplaint(ctx context.Context, complaintID uint) ([]models.Expense, error) {
	return s.find(ctx, s.db.Where("complaint_id = ?", complaintID))
}

// ListByUser returns the expenses recorded by one user.
func (s *ComplaintExpenseService) ListByUser(ctx context.Context, userID uint) ([]models.Expense, error) {
	return s.find(ctx, s.db.Where("added_by_id = ?", userID))
}

// TotalByComplaint sums what servicing one complaint has cost so far. A
// complaint with no expenses totals zero.
func (s *ComplaintExpenseService) TotalByComplaint(ctx context.Context, complaintID uint) (decimal.Decimal, error) {
	expenses, err := s.ListByComplaint(ctx, complaintID)
	if err != nil {
		return decimal.Zero, err
	}
	return lifecycle.SumComplaintExpenses(expenses), nil
}

// TotalByUser sums the expenses one user has recorded.
func (s *ComplaintExpenseService) TotalByUser(ctx context.Context, userID uint) (decimal.Decimal, error) {
	expenses, err := s.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return lifecycle.SumComplaintExpenses(expenses), nil
}

// Recent returns expenses dated in the last 30 days.
func (s *ComplaintExpenseService) Recent(ctx context.Context) ([]models.Expense, error) {
	cutoff := time.Now().AddDate(0, 0, -30)
	return s.find(ctx, s.db.Where("expense_date >= ?", cutoff))
}

// SearchByDescription returns expenses whose description contains the term,
// case-insensitive.
func (s *ComplaintExpenseService) SearchByDescription(ctx context.Context, term string) ([]models.Expense, error) {
	like := "%" + strings.ToLower(term) + "%"
	return s.find(ctx, s.db.Where("LOWER(description) LIKE ?", like))
}

// ListByDateRange returns expenses dated inside [start, end].
func (s *ComplaintExpenseService) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Expense, error) {
	return s.find(ctx, s.db.Where("expense_date BETWEEN ? AND ?", start, end))
}

// ListByAmountRange returns expenses costing between min and max inclusive.
func (s *ComplaintExpenseService) ListByAmountRange(ctx context.Context, min, max decimal.Decimal) ([]models.Expense, error) {
	return s.find(ctx, s.db.Where("amount BETWEEN ? AND ?", min, max))
}

// Stats returns the overall and last-30-day expense totals.
func (s *ComplaintExpenseService) Stats(ctx context.Context) (*lifecycle.ComplaintExpenseStats, error) {
	expenses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -30)
	stats := lifecycle.CountComplaintExpenses(expenses, cutoff)
	return &stats, nil
}

func (s *ComplaintExpenseService) find(ctx context.Context, q *gorm.DB) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := q.WithContext(ctx).
		Preload("Complaint").
		Preload("AddedBy").
		Order("expense_date DESC").
		Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaint expenses: %w", err)
	}
	return expenses, nil
}
