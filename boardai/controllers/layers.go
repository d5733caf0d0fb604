package controllers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"boardai/boardai/services/chatbot"
	"boardai/boardai/sources/psql/dao"
	"boardai/boardai/types"
)

var ErrLayerNotFound = errors.New("layer not found")

type LayerController struct {
	layerDAO *dao.LayerDAO
}

func NewLayerController(layerDAO *dao.LayerDAO) *LayerController {
	return &LayerController{layerDAO: layerDAO}
}

func (c *LayerController) Create(ctx context.Context, boardID string, userID int, spec types.LayerSpec) (types.Layer, error) {
	layer, err := c.layerDAO.InsertLayer(ctx, boardID, userID, spec)
	if err != nil {
		return types.Layer{}, err
	}
	return layer.View(), nil
}

func (c *LayerController) List(ctx context.Context, boardID string) ([]types.Layer, error) {
	layers, err := c.layerDAO.ListLayers(ctx, boardID)
	if err != nil {
		return nil, err
	}
	out := make([]types.Layer, 0, len(layers))
	for _, l := range layers {
		out = append(out, l.View())
	}
	return out, nil
}

func (c *LayerController) Delete(ctx context.Context, boardID, layerID string) error {
	id, err := uuid.Parse(layerID)
	if err != nil {
		return ErrLayerNotFound
	}
	deleted, err := c.layerDAO.DeleteLayer(ctx, boardID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLayerNotFound
	}
	return nil
}

// Inserter binds layer creation to one board and author for a chat session.
func (c *LayerController) Inserter(boardID string, userID int) chatbot.LayerInserter {
	return boardInserter{ctrl: c, boardID: boardID, userID: userID}
}

type boardInserter struct {
	ctrl    *LayerController
	boardID string
	userID  int
}

func (b boardInserter) InsertLayer(ctx context.Context, spec types.LayerSpec) (string, error) {
	layer, err := b.ctrl.Create(ctx, b.boardID, b.userID, spec)
	if err != nil {
		return "", err
	}
	return layer.ID, nil
}
