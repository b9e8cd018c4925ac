package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/cardapio-project/cardapio/pkg/common"
)

type gcsClient struct {
	storageClient *storage.Client
	bucketName    string
	// Object names are prefixed with this path, e.g. "cardapio/".
	prefix string
}

// NewGCS stores artifacts as objects of bucketName.
func NewGCS(storageClient *storage.Client, bucketName string, prefix string) JobStore {
	return &gcsClient{storageClient: storageClient, bucketName: bucketName, prefix: prefix}
}

func (s *gcsClient) objectName(jobID string, kind Kind) string {
	return path.Join(s.prefix, kind.Key(jobID))
}

func (s *gcsClient) Put(ctx context.Context, jobID string, kind Kind, data []byte) error {
	if err := validateJobID(jobID); err != nil {
		return err
	}

	bucket := s.storageClient.Bucket(s.bucketName)
	writer := bucket.Object(s.objectName(jobID, kind)).NewWriter(ctx)
	writer.ContentType = kind.ContentType

	_, err := writer.Write(data)
	if err != nil {
		writer.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return nil
}

func (s *gcsClient) Get(ctx context.Context, jobID string, kind Kind) ([]byte, error) {
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}

	reader, err := s.storageClient.Bucket(s.bucketName).Object(s.objectName(jobID, kind)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, common.NotFound(kind.Suffix + " not found for job " + jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object: %w", err)
	}
	return data, nil
}

func (s *gcsClient) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	bucket := s.storageClient.Bucket(s.bucketName)
	deleted := 0
	for _, dir := range Dirs {
		objects := bucket.Objects(ctx, &storage.Query{Prefix: path.Join(s.prefix, dir) + "/"})
		for {
			attrs, err := objects.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return deleted, fmt.Errorf("failed to list GCS objects: %w", err)
			}
			if !attrs.Created.Before(olderThan) {
				continue
			}
			if err := bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
				return deleted, fmt.Errorf("failed to delete %s: %w", attrs.Name, err)
			}
			deleted++
		}
	}
	return deleted, nil
}
