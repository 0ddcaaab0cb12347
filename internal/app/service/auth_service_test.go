package service

import (
	"testing"
	"time"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, "test-jwt-secret", 24*time.Hour)

	return authService, testDB
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		phone    string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			userName: "Test User",
			email:    "test@example.com",
			password: "password123",
			phone:    "555-0100",
			wantErr:  nil,
		},
		{
			name:     "Duplicate email",
			userName: "Another User",
			email:    "test@example.com",
			password: "password456",
			phone:    "555-0101",
			wantErr:  ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := authService.Register(tt.userName, tt.email, tt.password, tt.phone)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.userName, user.Name)
				assert.Equal(t, model.StatusActive, user.Status)
				assert.False(t, user.IsAdmin)
				assert.NotEmpty(t, token)
				assert.Contains(t, token, ".")
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	email := "test@example.com"
	password := "password123"
	registered, _, err := authService.Register("Test User", email, password, "555-0100")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		status   model.UserStatus
		wantErr  error
	}{
		{
			name:     "Valid login",
			email:    email,
			password: password,
			status:   model.StatusActive,
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    email,
			password: "wrongpassword",
			status:   model.StatusActive,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Non-existing user",
			email:    "notfound@example.com",
			password: password,
			status:   model.StatusActive,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Banned account",
			email:    email,
			password: password,
			status:   model.StatusBanned,
			wantErr:  ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, testDB.Model(&model.User{}).
				Where("id = ?", registered.ID).
				Update("status", tt.status).Error)

			user, token, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.NotEmpty(t, token)
			}
		})
	}
}

func TestAuthService_PasswordSecurity(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	password := "mySecretPassword123"
	user, _, err := authService.Register("Test User", "test@example.com", password, "")
	require.NoError(t, err)

	// Password should be hashed
	assert.NotEqual(t, password, user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$2a$")
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("Test User", "test@example.com", "password123", "555-0100")
	require.NoError(t, err)

	newName := "Renamed User"
	updated, err := authService.UpdateProfile(user.ID, ProfileUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	// Absent field stays untouched
	assert.Equal(t, "555-0100", updated.Phone)

	_, err = authService.UpdateProfile(9999, ProfileUpdate{Name: &newName})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("Test User", "test@example.com", "oldpassword", "")
	require.NoError(t, err)

	// Wrong current password is rejected
	err = authService.ChangePassword(user.ID, "not-the-password", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Correct current password succeeds
	require.NoError(t, authService.ChangePassword(user.ID, "oldpassword", "newpassword"))

	_, _, err = authService.Login("test@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("test@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestAuthService_GetAccountSummary(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user, _, err := authService.Register("Test User", "test@example.com", "password123", "555-0100")
	require.NoError(t, err)

	summary, err := authService.GetAccountSummary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, summary.UserID)
	assert.Equal(t, "active", summary.AccountStatus)
	assert.Equal(t, 0, summary.DaysAsMember)
	assert.True(t, summary.ProfileComplete)
	assert.False(t, summary.IsAdmin)

	// Member for 10 days
	require.NoError(t, testDB.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("created_at", time.Now().Add(-10*24*time.Hour-time.Hour)).Error)

	summary, err = authService.GetAccountSummary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.DaysAsMember)

	// Phone missing means incomplete profile
	incomplete, _, err := authService.Register("No Phone", "nophone@example.com", "password123", "")
	require.NoError(t, err)

	summary, err = authService.GetAccountSummary(incomplete.ID)
	require.NoError(t, err)
	assert.False(t, summary.ProfileComplete)

	_, err = authService.GetAccountSummary(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
