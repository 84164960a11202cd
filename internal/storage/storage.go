// Package storage persists invocation artifacts on the local filesystem
// and resolves them to public URLs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smallbiznis/pixomat/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Store interface {
	// Save writes data under the media root at the given relative path,
	// creating parent directories as needed, and returns the relative
	// path back for ledger bookkeeping.
	Save(rel string, data []byte) (string, error)
	// URL resolves a stored relative path to its public URL.
	URL(rel string) string
	// Remove deletes a stored artifact. Missing files are not an error.
	Remove(rel string) error
}

type localStore struct {
	root    string
	baseURL string
	log     *zap.Logger
}

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

func New(p Params) (Store, error) {
	if err := os.MkdirAll(p.Config.MediaRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &localStore{
		root:    p.Config.MediaRoot,
		baseURL: strings.TrimSuffix(p.Config.MediaBaseURL, "/"),
		log:     p.Log.Named("storage"),
	}, nil
}

func (s *localStore) Save(rel string, data []byte) (string, error) {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid artifact path %q", rel)
	}
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	s.log.Debug("artifact saved", zap.String("path", rel), zap.Int("bytes", len(data)))
	return rel, nil
}

func (s *localStore) URL(rel string) string {
	return s.baseURL + "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
}

func (s *localStore) Remove(rel string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var Module = fx.Module("storage", fx.Provide(New))
