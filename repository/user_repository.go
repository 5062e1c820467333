package repository

import (
	"context"
	"errors"

	"github.com/evalforge/workforce-suite/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements the UserRepository read port
type UserRepositoryImpl struct {
	DB *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{DB: db}
}

func (r *UserRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// ByUserID retrieves an active user scoped to a tenant, or nil
func (r *UserRepositoryImpl) ByUserID(ctx context.Context, tenantID uint, id uuid.UUID) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Where("id = ? AND tenant_id = ? AND is_active = true", id, tenantID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Exists checks whether an active user with the given ID exists in the tenant
func (r *UserRepositoryImpl) Exists(ctx context.Context, tenantID uint, id uuid.UUID) (bool, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.User{}).
		Where("id = ? AND tenant_id = ? AND is_active = true", id, tenantID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// AllExist checks whether every given ID resolves to an active user in the
// tenant. An empty slice trivially passes.
func (r *UserRepositoryImpl) AllExist(ctx context.Context, tenantID uint, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.User{}).
		Where("id IN ? AND tenant_id = ? AND is_active = true", ids, tenantID).
		Distinct("id").
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count == int64(len(ids)), nil
}
