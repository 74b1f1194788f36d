package service

import (
	"context"
	"time"

	"invoice-generator/internal/models"

	"gorm.io/gorm"
)

// AuditFilter narrows List. End is exclusive.
type AuditFilter struct {
	ListParams
	Start *time.Time
	End   *time.Time
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record stores one audit entry.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return internal("write audit log", err)
	}
	return nil
}

// List pages through audit entries, newest first. Search matches the path.
func (s *AuditService) List(ctx context.Context, f AuditFilter) (*Page[models.AuditLog], error) {
	f.normalize()
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.Start != nil {
		q = q.Where("created_at >= ?", f.Start.UTC())
	}
	if f.End != nil {
		q = q.Where("created_at < ?", f.End.UTC())
	}
	if f.Search != "" {
		q = q.Where("LOWER(path) LIKE ?", likePattern(f.Search))
	}
	page, err := paginate[models.AuditLog](q, f.ListParams, "created_at DESC, id DESC")
	if err != nil {
		return nil, internal("list audit logs", err)
	}
	return page, nil
}
