// Package backup exports all fitness data of a user to Google Drive. Every
// collection becomes one timestamped JSON file in a dedicated backups folder,
// routine days get one file per routine.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const rootBackupsFolderName = "liftlog-backup"

// collections exported on every backup run, routine days are handled
// separately per routine
var backupCollections = []string{
	docstore.CollMuscleGroups,
	docstore.CollSubcategories,
	docstore.CollExercises,
	docstore.CollRoutines,
	docstore.CollPersonalRecords,
	docstore.CollBodyMeasurements,
	docstore.CollProfile,
	docstore.CollAppState,
}

type GoogleDriveBackupService struct {
	store           docstore.Store
	userID          string
	service         *drive.Service
	backupsFolderId string
	// email address given reader access to every uploaded file,
	// empty to skip permission handling
	readerEmail string
}

func NewGoogleDriveBackupService(
	ctx context.Context,
	credentialsJson []byte,
	store docstore.Store,
	userID string,
	readerEmail string,
) (*GoogleDriveBackupService, error) {
	// https://github.com/googleapis/google-api-go-client/blob/master/drive/v3/drive-gen.go
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	rootFolderQuery := fmt.Sprintf("mimeType = 'application/vnd.google-apps.folder' and trashed = false and name = '%s'", rootBackupsFolderName)
	backupsFolder, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	backupsFolderId := ""
	if len(backupsFolder.Files) == 1 {
		rbf := backupsFolder.Files[0]
		log.Printf("root backups folder found, %s: %s", rbf.Name, rbf.Id)
		backupsFolderId = rbf.Id
	} else if len(backupsFolder.Files) == 0 {
		log.Println("root backups folder not found, will recreate")
	} else {
		rbf := backupsFolder.Files[0]
		log.Printf("attention: found %d root backups folders, will take the first one: %s", len(backupsFolder.Files), rbf.Id)
		backupsFolderId = rbf.Id
	}

	s := &GoogleDriveBackupService{
		store:       store,
		userID:      userID,
		service:     driveService,
		readerEmail: readerEmail,
	}

	if backupsFolderId == "" {
		backupsFolderId, err = s.createRootBackupsFolder()
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Printf("new root backups folder created: %s", backupsFolderId)
	}

	s.backupsFolderId = backupsFolderId

	return s, nil
}

// Reinit throws the whole backups folder away and does a fresh backup run.
func (s *GoogleDriveBackupService) Reinit(ctx context.Context, baseTime time.Time) error {
	log.Println("liftlog backup reinit starting ...")

	err := s.service.Files.
		Delete(s.backupsFolderId).
		Do()
	if err != nil {
		return err
	}

	backupsFolderId, err := s.createRootBackupsFolder()
	if err != nil {
		return fmt.Errorf("failed to create root backups folder: %w", err)
	}

	log.Printf("new root backups folder created: %s", backupsFolderId)

	s.backupsFolderId = backupsFolderId

	return s.DoBackup(ctx, baseTime)
}

// Destroy removes the root backups folder together with all backup files.
func (s *GoogleDriveBackupService) Destroy() error {
	return s.service.Files.
		Delete(s.backupsFolderId).
		Do()
}

func (s *GoogleDriveBackupService) DoBackup(ctx context.Context, baseTime time.Time) (err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.doBackup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	currentBackupFiles, err := s.getBackupFiles(s.backupsFolderId)
	if err != nil {
		return err
	}
	log.Printf("found %d existing backup files", len(currentBackupFiles))

	exports, err := s.collectExports(ctx)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.Int("backup.exports", len(exports)))

	uploaded := 0
	for _, export := range exports {
		baseName := fmt.Sprintf("%s-%d-%d-%d", export.name, baseTime.Day(), baseTime.Month(), baseTime.Year())
		fileName := resolveFileName(currentBackupFiles, baseName)

		if err := s.uploadFile(fileName, export.content); err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}

		currentBackupFiles = append(currentBackupFiles, &drive.File{Name: fileName})
		uploaded++
	}

	span.SetAttributes(attribute.Int("backup.uploaded", uploaded))
	log.Printf("backup done, %d files uploaded", uploaded)

	return nil
}

type collectionExport struct {
	name    string
	content []byte
}

type exportedDocument struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// collectExports reads every user collection and serializes it. Empty
// collections are skipped, routines additionally yield one export of days
// per routine.
func (s *GoogleDriveBackupService) collectExports(ctx context.Context) ([]collectionExport, error) {
	var exports []collectionExport

	for _, collection := range backupCollections {
		snapshot, err := s.store.GetOnce(ctx, docstore.UserCollection(s.userID, collection))
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", collection, err)
		}

		if len(snapshot) == 0 {
			log.Printf("collection %s empty, skipping", collection)
			continue
		}

		content, err := snapshotJSON(snapshot)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", collection, err)
		}
		exports = append(exports, collectionExport{name: collection, content: content})

		if collection != docstore.CollRoutines {
			continue
		}

		for _, routine := range snapshot {
			days, err := s.store.GetOnce(ctx, docstore.RoutineDaysPath(s.userID, routine.ID))
			if err != nil {
				return nil, fmt.Errorf("get days of routine %s: %w", routine.ID, err)
			}
			if len(days) == 0 {
				continue
			}

			content, err := snapshotJSON(days)
			if err != nil {
				return nil, fmt.Errorf("marshal days of routine %s: %w", routine.ID, err)
			}
			exports = append(exports, collectionExport{
				name:    fmt.Sprintf("routine-%s-days", routine.ID),
				content: content,
			})
		}
	}

	return exports, nil
}

func snapshotJSON(snapshot docstore.Snapshot) ([]byte, error) {
	docs := make([]exportedDocument, 0, len(snapshot))
	for _, doc := range snapshot {
		docs = append(docs, exportedDocument{
			ID:     doc.ID,
			Fields: doc.Fields,
		})
	}
	return json.Marshal(docs)
}

// resolveFileName appends a counter suffix until the name is free among
// the existing backup files.
func resolveFileName(existing []*drive.File, baseName string) string {
	name := baseName + ".json"
	counter := 1
	for {
		taken := false
		for _, file := range existing {
			if file.Name == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
		counter++
		name = fmt.Sprintf("%s_%d.json", baseName, counter)
	}
}

func (s *GoogleDriveBackupService) uploadFile(fileName string, content []byte) error {
	log.Printf("%s: creating file on google drive ...", fileName)

	fileMeta := &drive.File{
		Name: fileName,
		// https://developers.google.com/drive/api/v3/mime-types
		MimeType: "application/vnd.google-apps.file",
		Parents:  []string{s.backupsFolderId},
	}

	backupFile, err := s.service.
		Files.Create(fileMeta).
		Fields("id, parents").
		Media(bytes.NewReader(content)).
		Do()
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}

	permissionId, err := s.updateFilePermission(backupFile.Id)
	if err != nil {
		return fmt.Errorf("failed to create additional permission: %w", err)
	}

	log.Printf("%s: backup file [permission %s] saved: %s", fileName, permissionId, backupFile.Id)

	return nil
}

func (s *GoogleDriveBackupService) createRootBackupsFolder() (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     rootBackupsFolderName,
		MimeType: "application/vnd.google-apps.folder",
	}

	bfRes, err := s.service.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	if pId, err := s.updateFilePermission(bfRes.Id); err != nil {
		return bfRes.Id, fmt.Errorf("failed to create additional permission for root backup folder: %w", err)
	} else {
		log.Printf("permission %s created for root backup folder %s", pId, bfRes.Id)
	}

	return bfRes.Id, nil
}

func (s *GoogleDriveBackupService) updateFilePermission(fileId string) (string, error) {
	if s.readerEmail == "" {
		return "skipped", nil
	}

	permission := &drive.Permission{
		EmailAddress: s.readerEmail,
		Type:         "user",
		Role:         "reader",
	}

	createdPermission, err := s.service.Permissions.
		Create(fileId, permission).
		Do()
	if err != nil {
		return "", err
	}

	return createdPermission.Id, nil
}

func (s *GoogleDriveBackupService) getBackupFiles(backupsFolderId string) ([]*drive.File, error) {
	filesQuery := fmt.Sprintf("'%s' in parents and mimeType != 'application/vnd.google-apps.folder' and trashed = false", backupsFolderId)
	backups, err := s.service.
		Files.List().
		Q(filesQuery).
		Fields("files(id, name, createdTime)").
		Do()
	if err != nil {
		return nil, err
	}

	return backups.Files, nil
}
