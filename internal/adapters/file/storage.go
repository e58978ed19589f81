package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"

	"imager/internal/core/domain"
)

// Storage keeps assets as flat files under a single directory.
type Storage struct {
	root string
}

func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		err = fmt.Errorf("error creating storage directory %w", err)
		log.Error().Err(err).Str("root", root).Send()
		return nil, err
	}

	log.Debug().Str("root", root).Msg("storage ready")

	return &Storage{root: root}, nil
}

func (s *Storage) Root() string {
	return s.root
}

// Fetch returns the asset stored under name.
func (s *Storage) Fetch(_ context.Context, name string) (*domain.Asset, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	if err != nil {
		err = fmt.Errorf("error reading file %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	return &domain.Asset{Name: name, Data: buf, ContentType: mimetype.Detect(buf).String()}, nil
}

// FetchDerivative returns the stored derivative of name for params.
func (s *Storage) FetchDerivative(ctx context.Context, name string, params domain.Params) (*domain.Asset, error) {
	if err := domain.ValidateFilename(name); err != nil {
		return nil, err
	}

	return s.Fetch(ctx, domain.DerivativeKey(name, params))
}

func (s *Storage) Exists(_ context.Context, name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}

	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		err = fmt.Errorf("error checking file %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return false, err
	}

	return stat.Mode().IsRegular(), nil
}

// Store writes data under the normalized form of name, replacing any existing asset.
func (s *Storage) Store(_ context.Context, data []byte, name, contentType string) (string, error) {
	return s.write(bytes.NewReader(data), NormalizeName(name, contentType))
}

// StoreUpload writes an upload under its declared filename and content type.
func (s *Storage) StoreUpload(_ context.Context, upload domain.Upload) (string, error) {
	return s.write(upload.Body, NormalizeName(upload.Filename, upload.ContentType))
}

func (s *Storage) write(r io.Reader, name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		err = fmt.Errorf("error creating directory %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return "", err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	// written next to the target so the rename stays on one filesystem
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp", id.String()))

	f, err := os.Create(tmp)
	if err != nil {
		err = fmt.Errorf("error creating temp file %w", err)
		log.Error().Err(err).Str("path", tmp).Send()
		return "", err
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		removeTemp(tmp)
		err = fmt.Errorf("error writing file %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return "", err
	}

	if err := os.Rename(tmp, path); err != nil {
		removeTemp(tmp)
		err = fmt.Errorf("error moving file into place %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return "", err
	}

	log.Debug().Str("path", path).Int64("bytes", n).Msg("stored file")

	return name, nil
}

func (s *Storage) path(name string) (string, error) {
	if err := domain.ValidateFilename(name); err != nil {
		return "", err
	}

	return filepath.Join(s.root, name), nil
}

// NormalizeName appends the content type's subtype when the name does not already end with it,
// then rewrites a trailing jpeg to jpg.
func NormalizeName(name, contentType string) string {
	if contentType != "" {
		parts := strings.Split(contentType, "/")
		suffix := parts[len(parts)-1]
		if !strings.HasSuffix(name, suffix) {
			name = name + "." + suffix
		}
	}

	// every occurrence is replaced, not just the suffix
	if strings.HasSuffix(name, "jpeg") {
		name = strings.ReplaceAll(name, "jpeg", "jpg")
	}

	return name
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
	}
}
