package service

import (
	"errors"
	"time"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"github.com/jwkang/stylecart-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive or banned")
	ErrUserNotFound       = errors.New("user not found")
)

// ProfileUpdate is a partial profile update: nil fields are left untouched
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// AccountSummary is the derived view returned by the account summary endpoint
type AccountSummary struct {
	UserID          uint      `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	MemberSince     time.Time `json:"member_since"`
	DaysAsMember    int       `json:"days_as_member"`
	AccountStatus   string    `json:"account_status"`
	ProfileComplete bool      `json:"profile_complete"`
	IsAdmin         bool      `json:"is_admin"`
}

type AuthService interface {
	Register(name, email, password, phone string) (*model.User, string, error)
	Login(email, password string) (*model.User, string, error)
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	GetAccountSummary(userID uint) (*AccountSummary, error)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenExpiry time.Duration) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Register(name, email, password, phone string) (*model.User, string, error) {
	logger.Info("Registering new user", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		logger.Warn("Registration failed: email already in use", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing email", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		Status:       model.StatusActive,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID, user.Email, user.IsAdmin, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token after registration", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, token, nil
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	logger.Debug("Processing login", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to look up user for login", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: password mismatch", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrInvalidCredentials
	}

	if user.Status != model.StatusActive {
		logger.Warn("Login blocked: account not active", map[string]interface{}{
			"user_id": user.ID,
			"status":  user.Status,
		})
		return nil, "", ErrAccountInactive
	}

	token, err := util.GenerateToken(user.ID, user.Email, user.IsAdmin, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, token, nil
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	fields := make(map[string]interface{})
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			logger.Error("Failed to update user profile", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logger.Info("User profile updated successfully", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

func (s *authService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	logger.Info("Changing user password", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change rejected: current password mismatch", map[string]interface{}{
			"user_id": userID,
		})
		return ErrInvalidCredentials
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to store new password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Password changed successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) GetAccountSummary(userID uint) (*AccountSummary, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	days := int(time.Since(user.CreatedAt).Hours() / 24)

	return &AccountSummary{
		UserID:          user.ID,
		Name:            user.Name,
		Email:           user.Email,
		MemberSince:     user.CreatedAt,
		DaysAsMember:    days,
		AccountStatus:   string(user.Status),
		ProfileComplete: user.ProfileComplete(),
		IsAdmin:         user.IsAdmin,
	}, nil
}
