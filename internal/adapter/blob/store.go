package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
)

var allowedSlipTypes = []string{"image/png", "image/jpeg", "image/webp", "application/pdf"}

// Store persists uploaded payment slips and returns their public URL.
type Store interface {
	Save(ctx context.Context, r io.Reader) (string, error)
}

// FileStore keeps slips on the local filesystem.
type FileStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

func NewFileStore(dir, baseURL string, maxBytes int64, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create slip dir: %w", err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes, logger: logger}, nil
}

// Dir returns the directory slips are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save sniffs the content type, rejects oversized or unsupported files and
// writes the slip under a random name.
func (s *FileStore) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read slip: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty slip", domainErrors.ErrValidation)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: slip exceeds %d bytes", domainErrors.ErrValidation, s.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedSlipTypes...) {
		return "", fmt.Errorf("%w: unsupported slip type %s", domainErrors.ErrValidation, mtype.String())
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + mtype.Extension()
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create slip: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write slip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close slip: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store slip: %w", err)
	}

	s.logger.Info("slip stored", slog.String("name", name), slog.String("mime", mtype.String()), slog.Int("bytes", len(data)))
	return s.baseURL + "/" + name, nil
}
