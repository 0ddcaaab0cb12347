package repository

import (
	"errors"

	"github.com/jwkang/stylecart-backend/internal/app/model"
	"github.com/jwkang/stylecart-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.Address) error
	CreateAsDefault(address *model.Address) error
	FindByUserID(userID uint) ([]model.Address, error)
	FindByUserAndID(userID, addressID uint) (*model.Address, error)
	FindDefault(userID uint) (*model.Address, error)
	ApplyUpdate(userID, addressID uint, update *model.AddressUpdate) error
	SetDefault(userID, addressID uint) error
	Delete(userID, addressID uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"user_id":   address.UserID,
		"label":     address.Label,
		"full_name": address.FullName,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})
	return nil
}

// CreateAsDefault clears the user's existing default and inserts the new
// address as default inside one transaction.
func (r *addressRepository) CreateAsDefault(address *model.Address) error {
	logger.Debug("Creating default address in database", map[string]interface{}{
		"user_id": address.UserID,
	})

	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Model(&model.Address{}).
		Where("user_id = ?", address.UserID).
		Update("is_default", false).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear default addresses", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}

	address.IsDefault = true
	if err := tx.Create(address).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create default address", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}

	return tx.Commit().Error
}

func (r *addressRepository) FindByUserID(userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Addresses found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

// FindByUserAndID scopes the lookup to the owner, so a missing row and a
// row owned by someone else are indistinguishable to the caller.
func (r *addressRepository) FindByUserAndID(userID, addressID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		logger.Debug("Address lookup failed", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) FindDefault(userID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// ApplyUpdate applies a partial update; when the update sets is_default it
// clears the flag on every other address in the same transaction.
func (r *addressRepository) ApplyUpdate(userID, addressID uint, update *model.AddressUpdate) error {
	changes := update.Changes()
	if len(changes) == 0 {
		return nil
	}

	logger.Debug("Applying address update in database", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
		"fields":     len(changes),
	})

	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if update.IsDefault != nil && *update.IsDefault {
		if err := tx.Model(&model.Address{}).
			Where("user_id = ? AND id <> ?", userID, addressID).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to clear other default addresses", err, map[string]interface{}{
				"user_id": userID,
			})
			return err
		}
	}

	if err := tx.Model(&model.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Updates(changes).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	return tx.Commit().Error
}

func (r *addressRepository) SetDefault(userID, addressID uint) error {
	logger.Debug("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	tx := r.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction for setting default address", tx.Error, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return tx.Error
	}

	if err := tx.Model(&model.Address{}).Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear default addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if err := tx.Model(&model.Address{}).Where("id = ? AND user_id = ?", addressID, userID).Update("is_default", true).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to set address as default", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit transaction for setting default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Debug("Default address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

// Delete removes an address; when the deleted row was the default, the
// oldest remaining address is promoted so the user keeps a default.
func (r *addressRepository) Delete(userID, addressID uint) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var address model.Address
	if err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&address).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete address from database", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	if address.IsDefault {
		var oldest model.Address
		err := tx.Where("user_id = ?", userID).
			Order("created_at ASC").
			First(&oldest).Error
		if err == nil {
			if err := tx.Model(&model.Address{}).
				Where("id = ?", oldest.ID).
				Update("is_default", true).Error; err != nil {
				tx.Rollback()
				logger.Error("Failed to promote replacement default address", err, map[string]interface{}{
					"user_id":    userID,
					"address_id": oldest.ID,
				})
				return err
			}
			logger.Debug("Promoted oldest address to default", map[string]interface{}{
				"user_id":    userID,
				"address_id": oldest.ID,
			})
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit address deletion", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Debug("Address deleted from database", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}
