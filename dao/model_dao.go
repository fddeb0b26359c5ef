package dao

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/naijj/ml-shelf/entity"
	"github.com/naijj/ml-shelf/infrastructure/db"
)

type ModelDAO struct {
	DB *gorm.DB
}

func NewModelDAO() *ModelDAO {
	return &ModelDAO{
		DB: db.DB,
	}
}

func (d *ModelDAO) Save(ctx context.Context, model *entity.Model) error {
	if model == nil {
		return ErrNilEntity
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return fmt.Errorf("save model failed: %w", err)
	}
	return dbConn.Create(model).Error
}

func (d *ModelDAO) FindByID(ctx context.Context, id uint) (*entity.Model, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return nil, fmt.Errorf("find model by id failed: %w", err)
	}

	var model entity.Model
	if err := dbConn.First(&model, id).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// FindAll returns the whole catalog newest first. ID breaks created_at ties so
// the order is deterministic.
func (d *ModelDAO) FindAll(ctx context.Context) ([]entity.Model, error) {
	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return nil, fmt.Errorf("find models failed: %w", err)
	}

	var models []entity.Model
	if err := dbConn.Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("query models failed: %w", err)
	}
	return models, nil
}

func (d *ModelDAO) FindByUser(ctx context.Context, userID string) ([]entity.Model, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidID
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return nil, fmt.Errorf("find user models failed: %w", err)
	}

	var models []entity.Model
	err = dbConn.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query user models failed: %w", err)
	}
	return models, nil
}

// IncrementDownloads bumps the download counter by one, atomically in the
// database.
func (d *ModelDAO) IncrementDownloads(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidID
	}

	dbConn, err := withContext(d.DB, ctx)
	if err != nil {
		return fmt.Errorf("increment downloads failed: %w", err)
	}

	result := dbConn.Model(&entity.Model{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment downloads failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
