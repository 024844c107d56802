package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"

	"github.com/2beens/ridesmap/internal/telemetry/tracing"
	"github.com/2beens/ridesmap/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=backup_mocks_test.go -package=archive_test

const (
	DefaultFolderName = "ridesmap-backup"
	backupFilePrefix  = "workouts-"
	backupFileExt     = ".ndjson"
)

var ErrEmptyDataset = errors.New("dataset is empty")

type driveStore interface {
	FindFolders(ctx context.Context, name string) ([]*drive.File, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	ListFiles(ctx context.Context, folderID string) ([]*drive.File, error)
	Upload(ctx context.Context, folderID, name, mimeType string, content io.Reader) (*drive.File, error)
	Share(ctx context.Context, fileID, email string) (string, error)
	Delete(ctx context.Context, fileID string) error
}

type NewBackupServiceParams struct {
	Store      driveStore
	FolderName string
	// ShareWith gets reader access to the backups folder and files when set
	ShareWith string
}

type BackupService struct {
	store      driveStore
	folderName string
	folderID   string
	shareWith  string
}

// NewBackupService finds the backups folder, creating it when missing
func NewBackupService(ctx context.Context, params NewBackupServiceParams) (*BackupService, error) {
	folderName := params.FolderName
	if folderName == "" {
		folderName = DefaultFolderName
	}

	s := &BackupService{
		store:      params.Store,
		folderName: folderName,
		shareWith:  params.ShareWith,
	}

	folders, err := s.store.FindFolders(ctx, folderName)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve backup folders: %w", err)
	}

	switch {
	case len(folders) == 0:
		log.Printf("backups folder %s not found, creating ...", folderName)
		if s.folderID, err = s.createFolder(ctx); err != nil {
			return nil, fmt.Errorf("create backups folder: %w", err)
		}
		log.Printf("new backups folder created: %s", s.folderID)
	case len(folders) > 1:
		log.Warnf("found %d backups folders named %s, will take the first one: %s", len(folders), folderName, folders[0].Id)
		s.folderID = folders[0].Id
	default:
		log.Printf("backups folder found, %s: %s", folders[0].Name, folders[0].Id)
		s.folderID = folders[0].Id
	}

	return s, nil
}

func (s *BackupService) FolderID() string {
	return s.folderID
}

func (s *BackupService) createFolder(ctx context.Context) (string, error) {
	id, err := s.store.CreateFolder(ctx, s.folderName)
	if err != nil {
		return "", err
	}
	if s.shareWith != "" {
		if _, err := s.store.Share(ctx, id, s.shareWith); err != nil {
			return id, fmt.Errorf("share backups folder: %w", err)
		}
	}
	return id, nil
}

// BackupFileName names a snapshot taken at baseTime, suffixed _2, _3 ... when the name is taken
func BackupFileName(baseTime time.Time, existing []string) string {
	base := fmt.Sprintf("%s%d-%d-%d", backupFilePrefix, baseTime.Day(), int(baseTime.Month()), baseTime.Year())

	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}

	name := base + backupFileExt
	for n := 2; taken[name]; n++ {
		name = fmt.Sprintf("%s_%d%s", base, n, backupFileExt)
	}
	return name
}

// DoBackup uploads an NDJSON snapshot of the dataset and returns the created file
func (s *BackupService) DoBackup(ctx context.Context, baseTime time.Time, dataset []byte) (_ *drive.File, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "archive.backup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(bytes.TrimSpace(dataset)) == 0 {
		return nil, ErrEmptyDataset
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(existing))
	for _, f := range existing {
		names = append(names, f.Name)
	}

	name := BackupFileName(baseTime, names)
	log.Printf("%s: uploading %d bytes to google drive ...", name, len(dataset))

	file, err := s.store.Upload(ctx, s.folderID, name, pkg.ContentType.NDJSON, bytes.NewReader(dataset))
	if err != nil {
		return nil, fmt.Errorf("%s: upload: %w", name, err)
	}

	if s.shareWith != "" {
		permissionID, err := s.store.Share(ctx, file.Id, s.shareWith)
		if err != nil {
			return file, fmt.Errorf("%s: share: %w", name, err)
		}
		log.Debugf("%s: permission %s created", name, permissionID)
	}

	log.Printf("%s: backup saved: %s", name, file.Id)
	return file, nil
}

// List returns the snapshots in the backups folder, oldest first
func (s *BackupService) List(ctx context.Context) ([]*drive.File, error) {
	files, err := s.store.ListFiles(ctx, s.folderID)
	if err != nil {
		return nil, fmt.Errorf("list backup files: %w", err)
	}

	backups := make([]*drive.File, 0, len(files))
	for _, f := range files {
		if strings.HasPrefix(f.Name, backupFilePrefix) && strings.HasSuffix(f.Name, backupFileExt) {
			backups = append(backups, f)
		}
	}
	return backups, nil
}

// Destroy removes the backups folder with all snapshots and starts over with an empty one
func (s *BackupService) Destroy(ctx context.Context) error {
	log.Printf("destroying backups folder %s (%s) ...", s.folderName, s.folderID)

	if err := s.store.Delete(ctx, s.folderID); err != nil {
		return fmt.Errorf("delete backups folder: %w", err)
	}

	folderID, err := s.createFolder(ctx)
	if err != nil {
		return fmt.Errorf("recreate backups folder: %w", err)
	}
	s.folderID = folderID

	log.Printf("new backups folder created: %s", folderID)
	return nil
}
