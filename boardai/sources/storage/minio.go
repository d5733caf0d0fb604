package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"boardai/boardai/config"
	"boardai/boardai/types"
	"boardai/boardai/utils/logging"
)

type MinIOClient struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, errors.New("minio: endpoint is required")
	}
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOUseSSL,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logging.AppLogger.Info("created snapshot bucket", zap.String("bucket", bucket))
	}
	return &MinIOClient{client: client, bucket: bucket, now: time.Now}, nil
}

func SnapshotKey(boardID string, at time.Time) string {
	return snapshotKey(boardID, fmt.Sprintf("%d.json", at.UnixNano()))
}

func snapshotKey(boardID, name string) string {
	return path.Join("snapshots", boardID, name)
}

// UploadSnapshot writes the layers as one JSON object and returns its key.
func (m *MinIOClient) UploadSnapshot(ctx context.Context, boardID string, layers []types.LayerSpec) (string, error) {
	defer logging.LogDuration(ctx, "minio_upload_snapshot")()

	at := m.now().UTC()
	if layers == nil {
		layers = []types.LayerSpec{}
	}
	data, err := json.Marshal(types.Snapshot{BoardID: boardID, Layers: layers, Timestamp: at})
	if err != nil {
		return "", err
	}
	key := SnapshotKey(boardID, at)
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("minio: put %s: %w", key, err)
	}
	return key, nil
}

// GetSnapshot reads back one snapshot of boardID by its file name, the last
// element of the key UploadSnapshot returned.
func (m *MinIOClient) GetSnapshot(ctx context.Context, boardID, name string) (*types.Snapshot, error) {
	defer logging.LogDuration(ctx, "minio_get_snapshot")()

	key := snapshotKey(boardID, name)
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, notFound(err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, notFound(err)
	}
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("minio: decode %s: %w", key, err)
	}
	return &snap, nil
}

// notFound maps a missing object onto types.ErrSnapshotNotFound.
func notFound(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return types.ErrSnapshotNotFound
	}
	return err
}
