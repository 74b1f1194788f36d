package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"invoice-generator/internal/models"
	"invoice-generator/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// snapshotVersion is bumped whenever Snapshot changes shape.
const snapshotVersion = 1

// Snapshot is the plaintext content of a backup file.
type Snapshot struct {
	Version   int                     `json:"version"`
	CreatedAt time.Time               `json:"createdAt"`
	Profile   *models.BusinessProfile `json:"businessProfile,omitempty"`
	Customers []models.Customer       `json:"customers"`
	Products  []models.Product        `json:"products"`
	Invoices  []models.Invoice        `json:"invoices"`
}

type BackupService struct {
	db  *gorm.DB
	dir string
	key string
}

func NewBackupService(db *gorm.DB, dir, key string) *BackupService {
	return &BackupService{db: db, dir: dir, key: key}
}

func (s *BackupService) snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Version: snapshotVersion, CreatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profiles []models.BusinessProfile
		if err := tx.Limit(1).Find(&profiles).Error; err != nil {
			return err
		}
		if len(profiles) > 0 {
			snap.Profile = &profiles[0]
		}
		if err := tx.Order("created_at").Find(&snap.Customers).Error; err != nil {
			return err
		}
		if err := tx.Order("created_at").Find(&snap.Products).Error; err != nil {
			return err
		}
		return tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			Order("created_at").Find(&snap.Invoices).Error
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Create writes an encrypted snapshot of the business data to the backup
// directory and records it.
func (s *BackupService) Create(ctx context.Context, userID string) (*models.Backup, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, internal("collect backup data", err)
	}
	plain, err := json.Marshal(snap)
	if err != nil {
		return nil, internal("encode backup", err)
	}
	enc, err := util.EncryptAES(s.key, plain)
	if err != nil {
		return nil, internal("encrypt backup", err)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, internal("create backup dir", err)
	}
	name := fmt.Sprintf("backup_%s_%s.enc", snap.CreatedAt.Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, enc, 0o600); err != nil {
		return nil, internal("write backup file", err)
	}

	b := &models.Backup{
		CreatedBy: userID,
		FileName:  name,
		FilePath:  path,
		Size:      int64(len(enc)),
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		_ = os.Remove(path)
		return nil, internal("record backup", err)
	}
	slog.Info("backup created", "file", name, "size", b.Size)
	return b, nil
}

// Get loads backup metadata.
func (s *BackupService) Get(ctx context.Context, id uint) (*models.Backup, error) {
	var b models.Backup
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("backup")
		}
		return nil, internal("load backup", err)
	}
	return &b, nil
}

// Open decrypts a backup file back into its snapshot.
func (s *BackupService) Open(ctx context.Context, id uint) (*Snapshot, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound("backup file")
		}
		return nil, internal("read backup file", err)
	}
	plain, err := util.DecryptAES(s.key, data)
	if err != nil {
		return nil, internal("decrypt backup", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(plain, &snap); err != nil {
		return nil, internal("decode backup", err)
	}
	return &snap, nil
}

// List pages through backups, newest first.
func (s *BackupService) List(ctx context.Context, p ListParams) (*Page[models.Backup], error) {
	p.normalize()
	page, err := paginate[models.Backup](s.db.WithContext(ctx).Model(&models.Backup{}), p, "created_at DESC, id DESC")
	if err != nil {
		return nil, internal("list backups", err)
	}
	return page, nil
}

// Delete removes the record and the file. A file already gone is ignored.
func (s *BackupService) Delete(ctx context.Context, id uint) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(b.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return internal("remove backup file", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Backup{}, id).Error; err != nil {
		return internal("delete backup", err)
	}
	return nil
}
