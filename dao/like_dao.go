package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/naijj/ml-shelf/entity"
	"github.com/naijj/ml-shelf/infrastructure/db"
)

type LikeDAO struct {
	DB *gorm.DB
}

func NewLikeDAO() *LikeDAO {
	return &LikeDAO{
		DB: db.DB,
	}
}

// CountByModel returns the aggregate like count for a model.
func (d *LikeDAO) CountByModel(ctx context.Context, modelID uint) (int64, error) {
	if modelID == 0 {
		return 0, ErrInvalidID
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return 0, fmt.Errorf("count likes failed: %w", err)
	}

	var count int64
	err = dbConn.Model(&entity.Like{}).
		Where("model_id = ?", modelID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count likes failed: %w", err)
	}
	return count, nil
}

// Exists reports whether userID has liked modelID.
func (d *LikeDAO) Exists(ctx context.Context, modelID uint, userID string) (bool, error) {
	if modelID == 0 {
		return false, ErrInvalidID
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return false, fmt.Errorf("check like failed: %w", err)
	}

	var like entity.Like
	err = dbConn.
		Where("model_id = ? AND user_id = ?", modelID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check like failed: %w", err)
	}
	return true, nil
}

func (d *LikeDAO) Create(ctx context.Context, modelID uint, userID string) error {
	if modelID == 0 {
		return ErrInvalidID
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidID
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return fmt.Errorf("create like failed: %w", err)
	}

	like := entity.Like{ModelID: modelID, UserID: userID}
	if err := dbConn.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create like failed: %w", err)
	}
	return nil
}

// Delete removes the (model, user) like row. Deleting a non-existent like is
// not an error.
func (d *LikeDAO) Delete(ctx context.Context, modelID uint, userID string) error {
	if modelID == 0 {
		return ErrInvalidID
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidID
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return fmt.Errorf("delete like failed: %w", err)
	}

	result := dbConn.
		Where("model_id = ? AND user_id = ?", modelID, userID).
		Delete(&entity.Like{})
	if result.Error != nil {
		return fmt.Errorf("delete like failed: %w", result.Error)
	}
	return nil
}
