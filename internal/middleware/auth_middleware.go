package middleware

import (
	goerrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/internal/errors"
	"github.com/jwkang/stylecart-backend/pkg/util"
	"gorm.io/gorm"
)

// Context keys for user information
const (
	UserIDKey     = "user_id"
	UserNameKey   = "user_name"
	UserEmailKey  = "user_email"
	UserAdminKey  = "user_is_admin"
	UserStatusKey = "user_status"
)

type AuthMiddleware struct {
	jwtSecret string
	userRepo  repository.UserRepository
}

func NewAuthMiddleware(jwtSecret string, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		userRepo:  userRepo,
	}
}

// Authenticate validates the JWT and then confirms the user still exists
// with active status. A deactivated or deleted account fails even with a
// token that has not expired yet.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if goerrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		user, err := m.userRepo.FindActiveByID(claims.UserID)
		if err != nil {
			if goerrors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("Token valid but account missing or inactive", map[string]interface{}{
					"user_id": claims.UserID,
					"path":    c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthAccountInactive, "Account is inactive")
			} else {
				log.Error("Failed to load user during authentication", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				errors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserNameKey, user.Name)
		c.Set(UserEmailKey, user.Email)
		c.Set(UserAdminKey, user.IsAdmin)
		c.Set(UserStatusKey, string(user.Status))

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id":  user.ID,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		})

		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		isAdmin, exists := GetIsAdmin(c)
		if !exists || !isAdmin {
			userID, _ := GetUserID(c)
			log.Warn("Admin access denied", map[string]interface{}{
				"user_id": userID,
				"path":    c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserName extracts the user's display name from context
func GetUserName(c *gin.Context) (string, bool) {
	name, exists := c.Get(UserNameKey)
	if !exists {
		return "", false
	}
	return name.(string), true
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserStatus extracts the user's account status from context
func GetUserStatus(c *gin.Context) (string, bool) {
	status, exists := c.Get(UserStatusKey)
	if !exists {
		return "", false
	}
	return status.(string), true
}

// GetIsAdmin reports whether the authenticated user is an admin
func GetIsAdmin(c *gin.Context) (bool, bool) {
	isAdmin, exists := c.Get(UserAdminKey)
	if !exists {
		return false, false
	}
	return isAdmin.(bool), true
}
