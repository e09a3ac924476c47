package models

import (
	"time"
)

// Status is the complaint lifecycle state.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusClosed     Status = "CLOSED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every lifecycle state in order.
var Statuses = []Status{StatusOpen, StatusAssigned, StatusInProgress, StatusClosed, StatusCancelled}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Priority ranks how urgently a complaint should be attended to.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ComplaintType classifies what kind of service request a complaint is.
type ComplaintType string

const (
	TypeMachineRepair  ComplaintType = "MACHINE_REPAIR"
	TypeDemo           ComplaintType = "DEMO"
	TypeMachineEnquiry ComplaintType = "MACHINE_ENQUIRY"
	TypeTraining       ComplaintType = "TRAINING"
	TypeOthers         ComplaintType = "OTHERS"
)

// Valid reports whether t is one of the defined complaint types.
func (t ComplaintType) Valid() bool {
	switch t {
	case TypeMachineRepair, TypeDemo, TypeMachineEnquiry, TypeTraining, TypeOthers:
		return true
	}
	return false
}

// Complaint is a customer-reported issue tracked through the status lifecycle.
// AssignedStaffID is null until an admin assigns the complaint; a complaint
// without an assignee must never be IN_PROGRESS or CLOSED.
type Complaint struct {
	ID                  uint          `gorm:"primarykey" json:"id"`
	CustomerName        string        `gorm:"size:100;not null" json:"customerName"`
	MobileNumber        string        `gorm:"size:15;not null;index" json:"mobileNumber"`
	Email               string        `gorm:"size:100" json:"email"`
	Address             string        `gorm:"size:500;not null" json:"address"`
	City                string        `gorm:"size:50;not null" json:"city"`
	State               string        `gorm:"size:50;not null" json:"state"`
	MachineNameModel    string        `gorm:"size:100;not null" json:"machineNameModel"`
	ProblemDescription  string        `gorm:"size:1000;not null" json:"problemDescription"`
	UnderWarranty       bool          `gorm:"not null;default:false" json:"underWarranty"`
	MachinePurchaseDate *time.Time    `json:"machinePurchaseDate,omitempty"`
	ComplaintType       ComplaintType `gorm:"size:30;not null" json:"complaintType"`
	Status              Status        `gorm:"size:20;not null;default:'OPEN';index" json:"status"`
	Priority            Priority      `gorm:"size:20;not null;default:'MEDIUM'" json:"priority"`
	AssignedStaffID     *uint         `gorm:"index" json:"assignedStaffId,omitempty"`
	AssignedStaff       *User         `gorm:"foreignKey:AssignedStaffID" json:"assignedStaff,omitempty"`
	ResolutionNotes     string        `gorm:"size:1000" json:"resolutionNotes"`
	ScheduleDate        *time.Time    `json:"scheduleDate,omitempty"`
	CompletionDate      *time.Time    `json:"completionDate,omitempty"`
	CreatedDate         time.Time     `gorm:"autoCreateTime" json:"createdDate"`
	UpdatedDate         time.Time     `gorm:"autoUpdateTime" json:"updatedDate"`
}
