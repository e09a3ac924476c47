package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the reimbursement state of a staff expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpensePaid     ExpenseStatus = "PAID"
	ExpenseCleared  ExpenseStatus = "CLEARED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

// Valid reports whether s is one of the defined expense statuses.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePending, ExpenseApproved, ExpensePaid, ExpenseCleared, ExpenseRejected:
		return true
	}
	return false
}

// StaffExpense is a reimbursement claim raised by a staff member. The
// ComplaintNumber is a display-only reference, not an enforced foreign key.
// Once IsPaidByCompany is set the record is locked against edits and deletes.
type StaffExpense struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Reason          string          `gorm:"size:500;not null" json:"reason"`
	ExpenseDate     *time.Time      `json:"expenseDate,omitempty"`
	ComplaintNumber string          `gorm:"size:50" json:"complaintNumber"`
	Status          ExpenseStatus   `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	IsPaidByCompany bool            `gorm:"not null;default:false" json:"isPaidByCompany"`
	PaidDate        *time.Time      `json:"paidDate,omitempty"`
	StaffUserID     uint            `gorm:"not null;index" json:"staffUserId"`
	StaffUser       *User           `gorm:"foreignKey:StaffUserID" json:"staffUser,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Editable reports whether the expense can still be changed by its owner.
func (e *StaffExpense) Editable() bool {
	return !e.IsPaidByCompany
}

// Expense is a cost incurred while servicing a specific complaint, such as
// spare parts or travel. Unlike StaffExpense it is hard-linked to its
// complaint and carries no reimbursement lifecycle.
type Expense struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Description   string          `gorm:"size:500;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	ExpenseDate   time.Time       `gorm:"not null;index" json:"expenseDate"`
	ReceiptNumber string          `gorm:"size:50" json:"receiptNumber"`
	VendorName    string          `gorm:"size:100" json:"vendorName"`
	Notes         string          `gorm:"size:500" json:"notes"`
	ComplaintID   uint            `gorm:"not null;index" json:"complaintId"`
	Complaint     *Complaint      `gorm:"foreignKey:ComplaintID" json:"complaint,omitempty"`
	AddedByID     *uint           `gorm:"index" json:"addedById,omitempty"`
	AddedBy       *User           `gorm:"foreignKey:AddedByID" json:"addedBy,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}
