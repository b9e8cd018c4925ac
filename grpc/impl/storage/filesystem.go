package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cardapio-project/cardapio/pkg/common"
)

type filesystem struct {
	root string
}

// NewFilesystem stores artifacts below root, creating directories on demand.
func NewFilesystem(root string) JobStore {
	return &filesystem{root: root}
}

func (f *filesystem) Put(ctx context.Context, jobID string, kind Kind, data []byte) error {
	if err := validateJobID(jobID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(f.root, filepath.FromSlash(kind.Key(jobID)))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}

	// Readers never see a partially written artifact.
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", target, err)
	}
	return nil
}

func (f *filesystem) Get(ctx context.Context, jobID string, kind Kind) ([]byte, error) {
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(kind.Key(jobID))))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.NotFound(kind.Suffix + " not found for job " + jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind.Key(jobID), err)
	}
	return data, nil
}

func (f *filesystem) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	deleted := 0
	for _, dir := range Dirs {
		entries, err := os.ReadDir(filepath.Join(f.root, dir))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to list %s: %w", dir, err)
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return deleted, err
			}
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil || !info.ModTime().Before(olderThan) {
				continue
			}
			if err := os.Remove(filepath.Join(f.root, dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return deleted, fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
			}
			deleted++
		}
	}
	return deleted, nil
}
