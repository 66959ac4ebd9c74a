package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveUploader stores files in a Google Drive folder using a service account.
type DriveUploader struct {
	files    *drive.FilesService
	folderID string
}

var _ portssvc.Uploader = (*DriveUploader)(nil)

// NewDriveUploader builds a Drive client from a service account key file.
// The folder must be shared with the service account.
func NewDriveUploader(ctx context.Context, credentialsFile, folderID string) (*DriveUploader, error) {
	const op = "NewDriveUploader"

	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
	}
	config, err := google.JWTConfigFromJSON(creds, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}
	svc, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create drive service: %w", op, err)
	}
	return &DriveUploader{files: svc.Files, folderID: folderID}, nil
}

// Upload creates a new Drive file and returns its web view link.
func (u *DriveUploader) Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error) {
	meta := &drive.File{Name: name, MimeType: contentType}
	if u.folderID != "" {
		meta.Parents = []string{u.folderID}
	}
	created, err := u.files.Create(meta).
		Media(r).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive upload %s: %w", name, err)
	}
	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return "https://drive.google.com/file/d/" + created.Id + "/view", nil
}
