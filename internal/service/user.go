package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mangarao/aarohi-tms/internal/models"
)

// UserService manages staff and admin accounts.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUserInput carries the fields accepted when creating or updating an
// account. Password is optional on update.
type CreateUserInput struct {
	Username     string
	Email        string
	FullName     string
	MobileNumber string
	Password     string
	Role         models.Role
	IsActive     *bool
}

// Create makes a new account after uniqueness checks, hashing the password.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, Validationf("Invalid role: %s", in.Role)
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, Validationf("Password is required")
	}
	if err := s.checkUnique(ctx, 0, in.Username, in.Email, in.MobileNumber); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		MobileNumber: in.MobileNumber,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Update edits an account. The seed admin cannot be demoted or deactivated.
func (s *UserService) Update(ctx context.Context, id uint, in CreateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsSeedAdmin() {
		if in.Role != models.RoleAdmin {
			return nil, Validationf("Cannot change role of the default admin account")
		}
		if in.IsActive != nil && !*in.IsActive {
			return nil, Validationf("Cannot deactivate the default admin account")
		}
	}
	if !in.Role.Valid() {
		return nil, Validationf("Invalid role: %s", in.Role)
	}
	if err := s.checkUnique(ctx, id, in.Username, in.Email, in.MobileNumber); err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = in.Email
	user.FullName = in.FullName
	user.MobileNumber = in.MobileNumber
	user.Role = in.Role
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if strings.TrimSpace(in.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByUsername returns one account by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListByRole returns accounts holding the given role.
func (s *UserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

// ListActiveStaff returns the staff members available for assignment.
func (s *UserService) ListActiveStaff(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleStaff, true).
		Order("full_name").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	return users, nil
}

// Delete hard-deletes an account. The seed admin is protected.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsSeedAdmin() {
		return Validationf("Cannot delete the default admin account")
	}
	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// SetActive flips the active flag. Deactivating the seed admin is rejected.
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsSeedAdmin() && !active {
		return nil, Validationf("Cannot deactivate the default admin account")
	}
	user.IsActive = active
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UserStats are the admin dashboard account counters.
type UserStats struct {
	TotalUsers  int64 `json:"totalUsers"`
	TotalAdmins int64 `json:"totalAdmins"`
	TotalStaff  int64 `json:"totalStaff"`
}

// Stats counts accounts overall and active accounts per role.
func (s *UserService) Stats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	db := s.db.WithContext(ctx).Model(&models.User{})
	if err := db.Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Count(&stats.TotalAdmins).Error; err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleStaff, true).
		Count(&stats.TotalStaff).Error; err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}
	return &stats, nil
}

// checkUnique rejects username, email and mobile values already held by a
// different account. Empty emails are not checked.
func (s *UserService) checkUnique(ctx context.Context, selfID uint, username, email, mobile string) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return Validationf("Username is already taken")
	}

	if strings.TrimSpace(email) != "" {
		count = 0
		q = s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
		if selfID != 0 {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return Validationf("Email is already in use")
		}
	}

	count = 0
	q = s.db.WithContext(ctx).Model(&models.User{}).Where("mobile_number = ?", mobile)
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check mobile number: %w", err)
	}
	if count > 0 {
		return Validationf("Mobile number is already in use")
	}
	return nil
}
