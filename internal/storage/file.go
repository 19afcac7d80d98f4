package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/natefinch/atomic"
)

// zstdMagic prefixes every zstd frame
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// File stores each key as a zstd-compressed file under a directory.
// Uncompressed payloads are still readable.
type File struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewFile creates the directory if needed
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &File{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Path returns the file backing key
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, key+".zst")
}

// Get reads and, when needed, decompresses the value
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	out, err := f.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", key, err)
	}
	return out, nil
}

// Put compresses value and replaces the file atomically
func (f *File) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	compressed := f.encoder.EncodeAll(value, nil)
	if err := atomic.WriteFile(f.Path(key), bytes.NewReader(compressed)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close releases the codec resources
func (f *File) Close() error {
	f.decoder.Close()
	return f.encoder.Close()
}
