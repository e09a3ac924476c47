package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Mangarao/aarohi-tms/internal/lifecycle"
	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/models"
)

// ComplaintService manages the complaint lifecycle: intake, assignment,
// scheduling, status transitions and the dashboard queries.
type ComplaintService struct {
	db *gorm.DB
}

// NewComplaintService creates a ComplaintService.
func NewComplaintService(db *gorm.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

// CreateComplaintInput carries the intake fields.
type CreateComplaintInput struct {
	CustomerName        string
	MobileNumber        string
	Email               string
	Address             string
	City                string
	State               string
	MachineNameModel    string
	ProblemDescription  string
	UnderWarranty       bool
	MachinePurchaseDate *time.Time
	ComplaintType       models.ComplaintType
	Priority            models.Priority
}

func (in *CreateComplaintInput) validate() error {
	in.MobileNumber = lifecycle.SanitizeMobile(in.MobileNumber)
	if !lifecycle.ValidMobile(in.MobileNumber) {
		return Validationf("Mobile number must be exactly %d digits", lifecycle.MobileLength)
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return Validationf("Customer name is required")
	}
	if strings.TrimSpace(in.ProblemDescription) == "" {
		return Validationf("Problem description is required")
	}
	if !in.ComplaintType.Valid() {
		return Validationf("Invalid complaint type: %s", in.ComplaintType)
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return Validationf("Invalid priority: %s", in.Priority)
	}
	return nil
}

// Create files a complaint on behalf of staff or admin. It opens in OPEN
// state; priority defaults to MEDIUM when not supplied.
func (s *ComplaintService) Create(ctx context.Context, in CreateComplaintInput) (*models.Complaint, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := models.Complaint{
		CustomerName:        in.CustomerName,
		MobileNumber:        in.MobileNumber,
		Email:               in.Email,
		Address:             in.Address,
		City:                in.City,
		State:               in.State,
		MachineNameModel:    in.MachineNameModel,
		ProblemDescription:  in.ProblemDescription,
		UnderWarranty:       in.UnderWarranty,
		MachinePurchaseDate: in.MachinePurchaseDate,
		ComplaintType:       in.ComplaintType,
		Status:              models.StatusOpen,
		Priority:            in.Priority,
	}
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	return &c, nil
}

// CreatePublic files an unauthenticated complaint. A customer with an active
// complaint on the same mobile number is blocked until it is resolved.
// Priority is forced to MEDIUM regardless of input.
func (s *ComplaintService) CreatePublic(ctx context.Context, in CreateComplaintInput) (*models.Complaint, error) {
	in.MobileNumber = lifecycle.SanitizeMobile(in.MobileNumber)
	existing, err := s.ActiveByMobile(ctx, in.MobileNumber)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, Validationf("You already have an active complaint. Please wait for it to be resolved before submitting a new one.")
	}

	in.Priority = models.PriorityMedium
	return s.Create(ctx, in)
}

// UpdateComplaintInput carries partial edits; nil fields are left untouched.
type UpdateComplaintInput struct {
	CustomerName        *string
	MobileNumber        *string
	Email               *string
	Address             *string
	City                *string
	State               *string
	MachineNameModel    *string
	ProblemDescription  *string
	UnderWarranty       *bool
	MachinePurchaseDate *time.Time
	ComplaintType       *models.ComplaintType
	Priority            *models.Priority
	Status              *models.Status
	ResolutionNotes     *string
	ScheduleDate        *time.Time
	CompletionDate      *time.Time
}

// Update applies a partial edit. A status change embedded in the edit goes
// through the same transition rules as UpdateStatus.
func (s *ComplaintService) Update(ctx context.Context, id uint, in UpdateComplaintInput, actor middleware.TokenClaims) (*models.Complaint, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CustomerName != nil {
		c.CustomerName = *in.CustomerName
	}
	if in.MobileNumber != nil {
		mobile := lifecycle.SanitizeMobile(*in.MobileNumber)
		if !lifecycle.ValidMobile(mobile) {
			return nil, Validationf("Mobile number must be exactly %d digits", lifecycle.MobileLength)
		}
		c.MobileNumber = mobile
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.City != nil {
		c.City = *in.City
	}
	if in.State != nil {
		c.State = *in.State
	}
	if in.MachineNameModel != nil {
		c.MachineNameModel = *in.MachineNameModel
	}
	if in.ProblemDescription != nil {
		c.ProblemDescription = *in.ProblemDescription
	}
	if in.UnderWarranty != nil {
		c.UnderWarranty = *in.UnderWarranty
	}
	if in.MachinePurchaseDate != nil {
		c.MachinePurchaseDate = in.MachinePurchaseDate
	}
	if in.ComplaintType != nil {
		if !in.ComplaintType.Valid() {
			return nil, Validationf("Invalid complaint type: %s", *in.ComplaintType)
		}
		c.ComplaintType = *in.ComplaintType
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, Validationf("Invalid priority: %s", *in.Priority)
		}
		c.Priority = *in.Priority
	}
	if in.ResolutionNotes != nil {
		c.ResolutionNotes = *in.ResolutionNotes
	}
	if in.ScheduleDate != nil {
		c.ScheduleDate = in.ScheduleDate
	}
	if in.CompletionDate != nil {
		c.CompletionDate = in.CompletionDate
	}
	if in.Status != nil && *in.Status != c.Status {
		if err := s.applyTransition(c, *in.Status, c.ResolutionNotes, actor); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}
	return c, nil
}

// Assign hands a complaint to an active staff member, optionally with a
// schedule date, and moves it to ASSIGNED.
func (s *ComplaintService) Assign(ctx context.Context, complaintID, staffID uint, scheduleDate *time.Time) (*models.Complaint, error) {
	c, err := s.Get(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	var staff models.User
	if err := s.db.WithContext(ctx).First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Validationf("Staff not found with id: %d", staffID)
		}
		return nil, fmt.Errorf("failed to look up staff: %w", err)
	}
	if staff.Role != models.RoleStaff {
		return nil, Validationf("User is not a staff member")
	}
	if !staff.IsActive {
		return nil, Validationf("Staff member is not active")
	}

	c.AssignedStaffID = &staff.ID
	c.AssignedStaff = &staff
	c.Status = models.StatusAssigned
	if scheduleDate != nil {
		c.ScheduleDate = scheduleDate
	}
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to assign complaint: %w", err)
	}
	return c, nil
}

// UpdateSchedule replaces the schedule date of a complaint.
func (s *ComplaintService) UpdateSchedule(ctx context.Context, id uint, scheduleDate time.Time) (*models.Complaint, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ScheduleDate = &scheduleDate
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update schedule date: %w", err)
	}
	return c, nil
}

// UpdateStatus moves a complaint to a new status. Staff actors are held to
// the transition table and must be the assignee; admins may set any valid
// status. Closing requires resolution notes and stamps the completion time
// when it was never set.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id uint, status models.Status, resolutionNotes string, actor middleware.TokenClaims) (*models.Complaint, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyTransition(c, status, resolutionNotes, actor); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return c, nil
}

// applyTransition mutates c in place after checking the transition rules.
func (s *ComplaintService) applyTransition(c *models.Complaint, status models.Status, resolutionNotes string, actor middleware.TokenClaims) error {
	if !status.Valid() {
		return Validationf("Invalid status: %s", status)
	}
	if actor.Role == models.RoleStaff {
		if c.AssignedStaffID == nil || *c.AssignedStaffID != actor.UserID {
			return ErrForbidden
		}
		if !lifecycle.CanTransition(c.Status, status) {
			return Validationf("Cannot move complaint from %s to %s", c.Status, status)
		}
	}
	// An unassigned complaint can never be worked on or closed.
	if (status == models.StatusInProgress || status == models.StatusClosed) && c.AssignedStaffID == nil {
		return Validationf("Complaint must be assigned before it can be %s", status)
	}
	if status == models.StatusClosed {
		notes := resolutionNotes
		if strings.TrimSpace(notes) == "" {
			notes = c.ResolutionNotes
		}
		if strings.TrimSpace(notes) == "" {
			return Validationf("Resolution notes are required to close a complaint")
		}
		c.ResolutionNotes = notes
		if c.CompletionDate == nil {
			now := time.Now()
			c.CompletionDate = &now
		}
	} else if strings.TrimSpace(resolutionNotes) != "" {
		c.ResolutionNotes = resolutionNotes
	}
	c.Status = status
	return nil
}

// Get returns one complaint with its assignee preloaded.
func (s *ComplaintService) Get(ctx context.Context, id uint) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.db.WithContext(ctx).Preload("AssignedStaff").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return &c, nil
}

// List returns every complaint, newest first.
func (s *ComplaintService) List(ctx context.Context) ([]models.Complaint, error) {
	return s.find(ctx, s.db)
}

// ListByStatus returns complaints in one status.
func (s *ComplaintService) ListByStatus(ctx context.Context, status models.Status) ([]models.Complaint, error) {
	return s.find(ctx, s.db.Where("status = ?", status))
}

// ListByPriority returns complaints at one priority.
func (s *ComplaintService) ListByPriority(ctx context.Context, priority models.Priority) ([]models.Complaint, error) {
	return s.find(ctx, s.db.Where("priority = ?", priority))
}

// ListByStaff returns the complaints assigned to one staff member.
func (s *ComplaintService) ListByStaff(ctx context.Context, staffID uint) ([]models.Complaint, error) {
	return s.find(ctx, s.db.Where("assigned_staff_id = ?", staffID))
}

// ListByMobile returns every complaint filed under a mobile number.
func (s *ComplaintService) ListByMobile(ctx context.Context, mobile string) ([]models.Complaint, error) {
	return s.find(ctx, s.db.Where("mobile_number = ?", mobile))
}

// ActiveByMobile returns the not-yet-closed complaints for a mobile number,
// used by the duplicate-submission guard.
func (s *ComplaintService) ActiveByMobile(ctx context.Context, mobile string) ([]models.Complaint, error) {
	return s.find(ctx, s.db.Where("mobile_number = ? AND status <> ?", mobile, models.StatusClosed))
}

// Recent returns complaints created in the last 30 days.
func (s *ComplaintService) Recent(ctx context.Context) ([]models.Complaint, error) {
	cutoff := time.Now().AddDate(0, 0, -30)
	return s.find(ctx, s.db.Where("created_date >= ?", cutoff))
}

// HighPriorityOpen returns unclosed HIGH and URGENT complaints.
func (s *ComplaintService) HighPriorityOpen(ctx context.Context) ([]models.Complaint, error) {
	return s.find(ctx, s.db.
		Where("priority IN ?", []models.Priority{models.PriorityHigh, models.PriorityUrgent}).
		Where("status NOT IN ?", []models.Status{models.StatusClosed, models.StatusCancelled}))
}

// Search fetches the collection and applies the shared filter module over it,
// matching what every view used to do independently. Data volumes here are
// small enough that filtering in memory beats composing SQL per filter shape.
func (s *ComplaintService) Search(ctx context.Context, filter lifecycle.Filter) ([]models.Complaint, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(all), nil
}

// Stats recomputes the dashboard counters by linear scan.
func (s *ComplaintService) Stats(ctx context.Context) (*lifecycle.ComplaintStats, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := lifecycle.CountComplaints(all)
	return &stats, nil
}

// ScheduleRange returns complaints scheduled inside [start, end].
func (s *ComplaintService) ScheduleRange(ctx context.Context, start, end time.Time) ([]models.Complaint, error) {
	return s.find(ctx, s.db.Where("schedule_date BETWEEN ? AND ?", start, end))
}

// ScheduleToday returns complaints scheduled for the current day.
func (s *ComplaintService) ScheduleToday(ctx context.Context) ([]models.Complaint, error) {
	start, end := lifecycle.DayBounds(time.Now())
	return s.ScheduleRange(ctx, start, end)
}

// StaffScheduleRange returns one staff member's schedule inside [start, end].
func (s *ComplaintService) StaffScheduleRange(ctx context.Context, staffID uint, start, end time.Time) ([]models.Complaint, error) {
	return s.find(ctx, s.db.
		Where("assigned_staff_id = ?", staffID).
		Where("schedule_date BETWEEN ? AND ?", start, end))
}

// Delete hard-deletes a complaint.
func (s *ComplaintService) Delete(ctx context.Context, id uint) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	return nil
}

func (s *ComplaintService) find(ctx context.Context, q *gorm.DB) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := q.WithContext(ctx).
		Preload("AssignedStaff").
		Order("created_date DESC").
		Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}
