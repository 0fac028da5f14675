package attachments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

// MaxUploadBytes bounds a single attachment.
const MaxUploadBytes = 10 << 20

var (
	// ErrStorageDisabled is returned when no bucket is configured.
	ErrStorageDisabled = fmt.Errorf("%w: attachment storage is not configured", httpx.ErrUnavailable)
	// ErrUnsupportedType rejects anything but PDF, JPEG and PNG.
	ErrUnsupportedType = fmt.Errorf("%w: only PDF, JPEG and PNG files are accepted", httpx.ErrUnprocessable)
	// ErrTooLarge rejects uploads above MaxUploadBytes.
	ErrTooLarge = fmt.Errorf("%w: file exceeds %d bytes", httpx.ErrUnprocessable, MaxUploadBytes)
)

var allowedTypes = []string{"application/pdf", "image/jpeg", "image/png"}

type Service struct {
	repo   Repository
	blobs  BlobStore
	logger *slog.Logger
}

// NewService wires the metadata repository and the blob store. blobs may be
// nil, which disables uploads and downloads.
func NewService(repo Repository, blobs BlobStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// Enabled reports whether a blob store is configured.
func (s *Service) Enabled() bool { return s.blobs != nil }

func (s *Service) List(ctx context.Context, ownerType OwnerType, ownerRef int64) ([]Attachment, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkOwnerType(ownerType); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, owner, ownerType, ownerRef)
}

// Upload stores a scan for a rental or partner contract.
func (s *Service) Upload(ctx context.Context, ownerType OwnerType, ownerRef int64, fileName string, r io.Reader) (Attachment, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Attachment{}, err
	}
	if s.blobs == nil {
		return Attachment{}, ErrStorageDisabled
	}
	if err := checkOwnerType(ownerType); err != nil {
		return Attachment{}, err
	}
	if ownerRef <= 0 {
		return Attachment{}, shared.ErrInvalidID
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Attachment{}, fmt.Errorf("%w: empty file", shared.ErrValidation)
	}
	if len(data) > MaxUploadBytes {
		return Attachment{}, ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return Attachment{}, fmt.Errorf("%w (got %s)", ErrUnsupportedType, mt.String())
	}

	key := objectKey(ownerType, ownerRef, mt.Extension())
	if err := s.blobs.Put(ctx, key, mt.String(), data); err != nil {
		return Attachment{}, fmt.Errorf("%w: store attachment: %v", httpx.ErrUnavailable, err)
	}
	created, err := s.repo.Create(ctx, owner, Attachment{
		OwnerType:   ownerType,
		OwnerRef:    ownerRef,
		FileName:    cleanFileName(fileName, mt.Extension()),
		ContentType: mt.String(),
		Size:        int64(len(data)),
		ObjectKey:   key,
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn("remove orphan attachment failed", "error", delErr, "key", key)
		}
		return Attachment{}, fmt.Errorf("create attachment: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Attachment, error) {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return Attachment{}, err
	}
	if id <= 0 {
		return Attachment{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, owner, id)
}

// Open streams the stored bytes of an attachment of the current owner.
func (s *Service) Open(ctx context.Context, id int64) (io.ReadCloser, error) {
	if s.blobs == nil {
		return nil, ErrStorageDisabled
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.blobs.Open(ctx, a.ObjectKey)
}

// Read loads an attachment with its bytes for download.
func (s *Service) Read(ctx context.Context, id int64) (Attachment, []byte, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return Attachment{}, nil, err
	}
	rc, err := s.Open(ctx, id)
	if err != nil {
		return Attachment{}, nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return Attachment{}, nil, fmt.Errorf("read attachment %d: %w", id, err)
	}
	return a, buf.Bytes(), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	owner, err := rootshared.RequireOwner(ctx)
	if err != nil {
		return err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}
	if s.blobs != nil {
		if err := s.blobs.Delete(ctx, a.ObjectKey); err != nil {
			s.logger.Warn("delete attachment blob failed", "error", err, "key", a.ObjectKey)
		}
	}
	return nil
}

func checkOwnerType(t OwnerType) error {
	switch t {
	case OwnerRental, OwnerPartner:
		return nil
	default:
		return fmt.Errorf("%w: owner_type must be rental or partner", shared.ErrValidation)
	}
}

// objectKey is <owner type>/<owner id>/<uuid><ext>.
func objectKey(t OwnerType, ref int64, ext string) string {
	return string(t) + "/" + strconv.FormatInt(ref, 10) + "/" + uuid.NewString() + ext
}

func cleanFileName(name, ext string) string {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == "/" {
		return "attachment" + ext
	}
	return name
}
