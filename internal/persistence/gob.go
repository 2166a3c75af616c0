// Package persistence stores gob-encoded objects in zstd-compressed files.
package persistence

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// SaveGob encodes the given object using gob, compresses it with zstd and
// saves it to the specified filePath. The file is written next to its
// destination and renamed into place, so readers never see a partial file.
// It creates necessary directories if they don't exist.
func SaveGob(filePath string, object interface{}) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file for %s: %w", filePath, err)
	}
	tmpPath := file.Name()
	committed := false
	defer func() {
		if !committed {
			_ = file.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	compressor, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer for %s: %w", filePath, err)
	}
	if err := gob.NewEncoder(compressor).Encode(object); err != nil {
		_ = compressor.Close()
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd stream for %s: %w", filePath, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filePath, err)
	}
	committed = true
	return nil
}

// LoadGob decodes a file written by SaveGob into the provided object pointer.
// The object must be a pointer to the type that was originally encoded.
// If the file does not exist, it returns os.ErrNotExist, allowing callers to handle
// fresh starts gracefully.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", filePath, "error", closeErr)
		}
	}()

	decompressor, err := zstd.NewReader(file)
	if err != nil {
		return fmt.Errorf("failed to create zstd reader for %s: %w", filePath, err)
	}
	defer decompressor.Close()

	if err := gob.NewDecoder(decompressor).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}
