package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/google/uuid"
)

// DefaultMaxUploadBytes caps attachments such as receipts and signed affidavits.
const DefaultMaxUploadBytes int64 = 20 << 20

type uploadService struct {
	BaseService
	uploader portssvc.Uploader
	maxBytes int64
}

// NewUploadService creates the attachment upload service.
func NewUploadService(uploader portssvc.Uploader, maxBytes int64, opts ...ServiceOption) portssvc.UploadSvc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &uploadService{BaseService: newBaseService(opts...), uploader: uploader, maxBytes: maxBytes}
}

// Upload stores the file under a collision-free name and returns its URL.
func (s *uploadService) Upload(ctx context.Context, req dto.UploadRequest, userID string) (dto.UploadResponse, error) {
	if req.Body == nil || req.Size == 0 {
		return dto.UploadResponse{}, fmt.Errorf("%w: file is empty", apperrors.ErrValidation)
	}
	if req.Size > s.maxBytes {
		return dto.UploadResponse{}, fmt.Errorf("%w: file exceeds %d bytes", apperrors.ErrValidation, s.maxBytes)
	}
	name := storedName(req.Filename)

	url, err := s.uploader.Upload(ctx, name, req.ContentType, req.Body)
	if err != nil {
		s.LogError(ctx, err, "Failed to store upload", slog.String("file", name))
		return dto.UploadResponse{}, apperrors.Upstream("storage", err)
	}
	s.LogInfo(ctx, "File uploaded", slog.String("file", name), slog.Int64("size", req.Size), slog.String("user_id", userID))
	s.track(userID, "file_uploaded", map[string]any{"size": req.Size, "content_type": req.ContentType})
	return dto.UploadResponse{Success: true, URL: url}, nil
}

// storedName keeps the extension of the client file name and replaces the rest with a UUID.
func storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.NewString() + ext
}
