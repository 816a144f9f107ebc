package storage

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// blobKey builds the object key for a recording. The random suffix
// keeps retried uploads from clobbering each other.
func blobKey(roomID, roundID string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("%s/%s_%s_%s.wav", roomID, roomID, roundID, suffix)
}

// Local stores recordings on the filesystem, for development and
// single-node deployments.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

func (l *Local) Save(ctx context.Context, audio []byte, roomID, roundID string) (string, error) {
	key := blobKey(roomID, roundID)
	path := filepath.Join(l.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create recording dir: %w", err)
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write recording: %w", err)
	}
	return "file://" + path, nil
}

func (l *Local) ResolveLocalPath(ctx context.Context, url string) (string, error) {
	path := strings.TrimPrefix(url, "file://")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("recording not found: %w", err)
	}
	return path, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	path := strings.TrimPrefix(url, "file://")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
