package dao_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/naijj/ml-shelf/dao"
	"github.com/naijj/ml-shelf/entity"
)

func newTestModel() *entity.Model {
	return &entity.Model{
		UserID:    "user-1",
		Name:      fmt.Sprintf("unittest_model_%d", time.Now().UnixNano()),
		Framework: "PyTorch",
		Tags:      entity.StringList{"vision", "edge"},
		FilePath:  "1714550000000-weights.pt",
		SizeBytes: 1024,
	}
}

func cleanupModel(t *testing.T, d *dao.ModelDAO, model *entity.Model) {
	t.Cleanup(func() {
		if model.ID > 0 && d.DB != nil {
			_ = d.DB.Delete(&entity.Model{}, model.ID).Error
		}
	})
}

func TestModelDAOSave(t *testing.T) {
	modelDAO := dao.NewModelDAO()
	model := newTestModel()

	err := modelDAO.Save(context.Background(), model)
	assert.NoError(t, err, "save should succeed")
	assert.NotZero(t, model.ID, "model id should be generated")
	cleanupModel(t, modelDAO, model)
}

func TestModelDAOSaveNil(t *testing.T) {
	modelDAO := dao.NewModelDAO()

	err := modelDAO.Save(context.Background(), nil)
	assert.ErrorIs(t, err, dao.ErrNilEntity)
}

func TestModelDAOFindByID(t *testing.T) {
	modelDAO := dao.NewModelDAO()
	model := newTestModel()
	require.NoError(t, modelDAO.Save(context.Background(), model))
	cleanupModel(t, modelDAO, model)

	found, err := modelDAO.FindByID(context.Background(), model.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Name, found.Name)
	assert.Equal(t, entity.StringList{"vision", "edge"}, found.Tags, "tags survive the round trip")

	_, err = modelDAO.FindByID(context.Background(), 0)
	assert.ErrorIs(t, err, dao.ErrInvalidID)
}

func TestModelDAOFindAllOrder(t *testing.T) {
	modelDAO := dao.NewModelDAO()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newTestModel()
	older.CreatedAt = base
	newer := newTestModel()
	newer.CreatedAt = base.Add(time.Hour)
	require.NoError(t, modelDAO.Save(context.Background(), older))
	require.NoError(t, modelDAO.Save(context.Background(), newer))
	cleanupModel(t, modelDAO, older)
	cleanupModel(t, modelDAO, newer)

	models, err := modelDAO.FindAll(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(models), 2)

	// The two seeded rows are the youngest in the table and come back newest
	// first.
	assert.Equal(t, newer.ID, models[0].ID)
	assert.Equal(t, older.ID, models[1].ID)
}

func TestModelDAOFindByUser(t *testing.T) {
	modelDAO := dao.NewModelDAO()
	owner := fmt.Sprintf("owner_%d", time.Now().UnixNano())

	mine := newTestModel()
	mine.UserID = owner
	other := newTestModel()
	require.NoError(t, modelDAO.Save(context.Background(), mine))
	require.NoError(t, modelDAO.Save(context.Background(), other))
	cleanupModel(t, modelDAO, mine)
	cleanupModel(t, modelDAO, other)

	models, err := modelDAO.FindByUser(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, mine.ID, models[0].ID)

	_, err = modelDAO.FindByUser(context.Background(), "  ")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
}

func TestModelDAOIncrementDownloads(t *testing.T) {
	modelDAO := dao.NewModelDAO()
	model := newTestModel()
	require.NoError(t, modelDAO.Save(context.Background(), model))
	cleanupModel(t, modelDAO, model)

	require.NoError(t, modelDAO.IncrementDownloads(context.Background(), model.ID))
	require.NoError(t, modelDAO.IncrementDownloads(context.Background(), model.ID))

	found, err := modelDAO.FindByID(context.Background(), model.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Downloads)
}

func TestModelDAOIncrementDownloadsMissingRow(t *testing.T) {
	modelDAO := dao.NewModelDAO()

	err := modelDAO.IncrementDownloads(context.Background(), 987654321)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
