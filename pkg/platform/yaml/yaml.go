// Package yaml holds the shared file helpers for the rule-set and fixture
// storage layers.
package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// WriteFile writes data to a temp file in the target directory and renames
// it into place, so a crashed write never leaves a truncated fixture.
func WriteFile(ctx context.Context, logger *zap.Logger, dir, fileName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", fileName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	target := filepath.Join(dir, fileName)
	if err := os.Rename(tmpName, target); err != nil {
		logger.Error("failed to move file into place", zap.String("file", target), zap.Error(err))
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ReadFile reads one file from dir, surfacing os.IsNotExist to callers.
func ReadFile(dir, fileName string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, fileName))
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
