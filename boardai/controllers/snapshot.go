package controllers

import (
	"context"
	"strings"

	"boardai/boardai/types"
)

// SnapshotStore archives board contents; storage.MinIOClient in production.
type SnapshotStore interface {
	UploadSnapshot(ctx context.Context, boardID string, layers []types.LayerSpec) (string, error)
	GetSnapshot(ctx context.Context, boardID, name string) (*types.Snapshot, error)
}

type SnapshotController struct {
	layers *LayerController
	store  SnapshotStore
}

func NewSnapshotController(layers *LayerController, store SnapshotStore) *SnapshotController {
	return &SnapshotController{layers: layers, store: store}
}

func (c *SnapshotController) Snapshot(ctx context.Context, boardID string) (types.SnapshotResponse, error) {
	layers, err := c.layers.List(ctx, boardID)
	if err != nil {
		return types.SnapshotResponse{}, err
	}
	specs := make([]types.LayerSpec, 0, len(layers))
	for _, l := range layers {
		specs = append(specs, l.LayerSpec)
	}
	key, err := c.store.UploadSnapshot(ctx, boardID, specs)
	if err != nil {
		return types.SnapshotResponse{}, err
	}
	return types.SnapshotResponse{Key: key}, nil
}

// Get returns one stored snapshot. name is the last element of the key
// Snapshot returned; anything else is types.ErrSnapshotNotFound.
func (c *SnapshotController) Get(ctx context.Context, boardID, name string) (*types.Snapshot, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, ".json") {
		return nil, types.ErrSnapshotNotFound
	}
	return c.store.GetSnapshot(ctx, boardID, name)
}
