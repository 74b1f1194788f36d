package service

import (
	"strings"

	"invoice-generator/internal/util"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListParams are the paging and search inputs shared by every list operation.
type ListParams struct {
	Search string
	Page   int
	Limit  int
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
}

func (p ListParams) offset() int { return (p.Page - 1) * p.Limit }

// likePattern lowercases s for a LOWER(col) LIKE ? comparison.
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// Page is one page of results.
type Page[T any] struct {
	Data []T
	Meta util.Meta
}

func newMeta(total int64, p ListParams) util.Meta {
	pages := 0
	if total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return util.Meta{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

// paginate counts q then loads the requested page into a new slice. The
// scopes (preloads) only apply to the page query.
func paginate[T any](q *gorm.DB, p ListParams, order string, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	rows := make([]T, 0, p.Limit)
	if err := q.Scopes(scopes...).Order(order).Limit(p.Limit).Offset(p.offset()).Find(&rows).Error; err != nil {
		return nil, err
	}
	return &Page[T]{Data: rows, Meta: newMeta(total, p)}, nil
}
