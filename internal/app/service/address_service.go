package service

import (
	"errors"
	"strings"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/internal/app/repository"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrNoDefaultAddress = errors.New("no default address found")
)

type AddressService interface {
	GetUserAddresses(userID uint) ([]model.Address, error)
	GetAddress(userID, addressID uint) (*model.Address, error)
	CreateAddress(userID uint, address *model.Address) error
	UpdateAddress(userID, addressID uint, update *model.AddressUpdate) (*model.Address, error)
	SetDefaultAddress(userID, addressID uint) error
	DeleteAddress(userID, addressID uint) error
	GetDefaultAddress(userID uint) (*model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		addressRepo: addressRepo,
	}
}

func (s *addressService) GetUserAddresses(userID uint) ([]model.Address, error) {
	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User addresses fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

// GetAddress returns ErrAddressNotFound for both a missing row and a row
// owned by another user.
func (s *addressService) GetAddress(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByUserAndID(userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		logger.Error("Failed to fetch address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, err
	}
	return address, nil
}

func (s *addressService) CreateAddress(userID uint, address *model.Address) error {
	logger.Info("Creating address", map[string]interface{}{
		"user_id":   userID,
		"label":     address.Label,
		"full_name": address.FullName,
	})

	address.UserID = userID
	address.CountryCode = strings.ToUpper(address.CountryCode)

	if address.IsDefault {
		if err := s.addressRepo.CreateAsDefault(address); err != nil {
			logger.Error("Failed to create default address", err, map[string]interface{}{
				"user_id": userID,
			})
			return err
		}
	} else {
		if err := s.addressRepo.Create(address); err != nil {
			logger.Error("Failed to create address", err, map[string]interface{}{
				"user_id": userID,
			})
			return err
		}
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
		"is_default": address.IsDefault,
	})
	return nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, update *model.AddressUpdate) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	// Ownership check doubles as existence check
	if _, err := s.addressRepo.FindByUserAndID(userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found for update", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if update.CountryCode != nil {
		upper := strings.ToUpper(*update.CountryCode)
		update.CountryCode = &upper
	}

	if err := s.addressRepo.ApplyUpdate(userID, addressID, update); err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, err
	}

	address, err := s.addressRepo.FindByUserAndID(userID, addressID)
	if err != nil {
		return nil, err
	}

	logger.Info("Address updated successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) error {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if _, err := s.addressRepo.FindByUserAndID(userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		return err
	}

	if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
		logger.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Default address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if err := s.addressRepo.Delete(userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found for deletion", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Address deleted successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) GetDefaultAddress(userID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindDefault(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDefaultAddress
		}
		logger.Error("Failed to fetch default address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return address, nil
}
