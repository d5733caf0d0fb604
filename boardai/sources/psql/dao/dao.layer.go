package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boardai/boardai/sources/psql/models"
	"boardai/boardai/types"
)

var ErrInvalidLayer = errors.New("invalid layer")

type LayerDAO struct {
	DB *gorm.DB
	// MaxLayers caps layers per board; 0 means no cap.
	MaxLayers int
}

func NewLayerDAO(db *gorm.DB, maxLayers int) *LayerDAO {
	return &LayerDAO{DB: db, MaxLayers: maxLayers}
}

// InsertLayer appends a layer on top of the board's stack. The board row is
// locked for the duration so concurrent inserts cannot overshoot MaxLayers;
// a full board yields types.ErrLayerLimit and writes nothing.
func (dao *LayerDAO) InsertLayer(ctx context.Context, boardID string, createdBy int, spec types.LayerSpec) (*models.Layer, error) {
	if boardID == "" {
		return nil, fmt.Errorf("%w: board id is required", ErrInvalidLayer)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayer, err)
	}
	layer := models.LayerFromSpec(boardID, spec)
	layer.CreatedBy = createdBy

	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board := models.Board{ID: boardID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&board).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", boardID).First(&board).Error; err != nil {
			return err
		}
		if dao.MaxLayers > 0 && board.LayerCount >= dao.MaxLayers {
			return types.ErrLayerLimit
		}

		var top int
		if err := tx.Model(&models.Layer{}).
			Where("board_id = ?", boardID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&top).Error; err != nil {
			return err
		}
		layer.Position = top

		if err := tx.Omit(clause.Associations).Create(&layer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Board{}).
			Where("id = ?", boardID).
			UpdateColumn("layer_count", gorm.Expr("layer_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	return &layer, nil
}

// ListLayers returns the board's layers bottom to top.
func (dao *LayerDAO) ListLayers(ctx context.Context, boardID string) ([]models.Layer, error) {
	var layers []models.Layer
	err := dao.DB.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&layers).Error
	if err != nil {
		return nil, err
	}
	return layers, nil
}

func (dao *LayerDAO) CountLayers(ctx context.Context, boardID string) (int, error) {
	var board models.Board
	err := dao.DB.WithContext(ctx).Where("id = ?", boardID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return board.LayerCount, nil
}

// DeleteLayer removes one layer and frees its slot under the cap. It
// reports false when the layer does not exist on this board.
func (dao *LayerDAO) DeleteLayer(ctx context.Context, boardID string, layerID uuid.UUID) (bool, error) {
	deleted := false
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board models.Board
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", boardID).First(&board).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		res := tx.Where("board_id = ? AND id = ?", boardID, layerID).Delete(&models.Layer{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&models.Board{}).
			Where("id = ?", boardID).
			UpdateColumn("layer_count", gorm.Expr("layer_count - ?", res.RowsAffected)).Error
	})
	return deleted, err
}
