package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/service"
	apperrors "github.com/jwkang/stylecart-backend/internal/errors"
	"github.com/jwkang/stylecart-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type CreateAddressRequest struct {
	Label        string `json:"label"`
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code" binding:"omitempty,len=2"`
	IsDefault    bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Label        *string `json:"label"`
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
	CountryCode  *string `json:"country_code" binding:"omitempty,len=2"`
	IsDefault    *bool   `json:"is_default"`
}

func parseAddressID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid address ID")
		return 0, false
	}
	return uint(id), true
}

// ListAddresses returns the user's addresses, default first
// GET /api/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addresses, err := ctrl.addressService.GetUserAddresses(userID)
	if err != nil {
		log.Error("Failed to list addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// GetAddress returns one of the user's addresses
// GET /api/addresses/:id
func (ctrl *AddressController) GetAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	address, err := ctrl.addressService.GetAddress(userID, addressID)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Address not found")
			return
		}
		log.Error("Failed to fetch address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}

// CreateAddress adds an address for the user
// POST /api/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create address request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	address := &model.Address{
		Label:        req.Label,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		CountryCode:  req.CountryCode,
		IsDefault:    req.IsDefault,
	}

	if err := ctrl.addressService.CreateAddress(userID, address); err != nil {
		log.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"address": address,
	})
}

// UpdateAddress applies a partial update to one of the user's addresses
// PUT /api/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update address request", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	update := &model.AddressUpdate{
		Label:        req.Label,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		CountryCode:  req.CountryCode,
		IsDefault:    req.IsDefault,
	}

	address, err := ctrl.addressService.UpdateAddress(userID, addressID, update)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Address not found")
			return
		}
		log.Error("Failed to update address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"address": address,
	})
}

// SetDefaultAddress marks one address as the default
// PUT /api/addresses/:id/set-default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	if err := ctrl.addressService.SetDefaultAddress(userID, addressID); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Address not found")
			return
		}
		log.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "set default address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default address updated successfully",
	})
}

// DeleteAddress removes an address; deleting the default promotes the
// oldest remaining address
// DELETE /api/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	if err := ctrl.addressService.DeleteAddress(userID, addressID); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Address not found")
			return
		}
		log.Error("Failed to delete address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}

// GetDefaultAddress returns the user's default address
// GET /api/addresses/default/address
func (ctrl *AddressController) GetDefaultAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	address, err := ctrl.addressService.GetDefaultAddress(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoDefaultAddress) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No default address found")
			return
		}
		log.Error("Failed to fetch default address", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get default address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}
