package archive

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// GoogleDrive is the thin layer over the Drive v3 files API used by the backup service
type GoogleDrive struct {
	service *drive.Service
}

func NewGoogleDrive(ctx context.Context, credentialsJson []byte, opts ...option.ClientOption) (*GoogleDrive, error) {
	opts = append([]option.ClientOption{option.WithCredentialsJSON(credentialsJson)}, opts...)
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}
	return &GoogleDrive{service: service}, nil
}

func (d *GoogleDrive) FindFolders(ctx context.Context, name string) ([]*drive.File, error) {
	q := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, name)
	res, err := d.service.Files.List().
		Q(q).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

func (d *GoogleDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	res, err := d.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return res.Id, nil
}

func (d *GoogleDrive) ListFiles(ctx context.Context, folderID string) ([]*drive.File, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", folderID, folderMimeType)
	var files []*drive.File
	err := d.service.Files.List().
		Q(q).
		Fields("nextPageToken, files(id, name, createdTime, size)").
		OrderBy("createdTime").
		Pages(ctx, func(page *drive.FileList) error {
			files = append(files, page.Files...)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (d *GoogleDrive) Upload(ctx context.Context, folderID, name, mimeType string, content io.Reader) (*drive.File, error) {
	return d.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{folderID},
	}).
		Fields("id, name, createdTime, parents").
		Media(content).
		Context(ctx).
		Do()
}

func (d *GoogleDrive) Share(ctx context.Context, fileID, email string) (string, error) {
	p, err := d.service.Permissions.Create(fileID, &drive.Permission{
		EmailAddress: email,
		Type:         "user",
		Role:         "reader",
	}).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return p.Id, nil
}

func (d *GoogleDrive) Delete(ctx context.Context, fileID string) error {
	return d.service.Files.Delete(fileID).Context(ctx).Do()
}
