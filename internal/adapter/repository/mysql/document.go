package mysql

import (
	"context"

	"loan-origination/internal/domain/document"

	"gorm.io/gorm"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) Save(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DocumentRepository) Delete(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).Delete(&document.Document{}, d.ID).Error
}

func (r *DocumentRepository) GetByDocumentID(ctx context.Context, documentID string) (*document.Document, error) {
	var out document.Document
	res := r.db.WithContext(ctx).Where("document_id = ?", documentID).First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) scoped(ctx context.Context, s document.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", s.UserID)
	if s.ApplicationID == nil {
		return q.Where("application_id IS NULL")
	}
	return q.Where("application_id = ?", *s.ApplicationID)
}

func (r *DocumentRepository) ListByScope(ctx context.Context, s document.Scope) ([]document.Document, error) {
	var out []document.Document
	err := r.scoped(ctx, s).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *DocumentRepository) ListByScopeAndType(ctx context.Context, s document.Scope, t document.Type) ([]document.Document, error) {
	var out []document.Document
	err := r.scoped(ctx, s).Where("type = ?", t).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *DocumentRepository) ListByApplication(ctx context.Context, applicationID uint64) ([]document.Document, error) {
	var out []document.Document
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("type ASC, created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *DocumentRepository) Attach(ctx context.Context, userID string, applicationID uint64, types []document.Type) (int64, error) {
	if len(types) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&document.Document{}).
		Where("user_id = ? AND application_id IS NULL AND type IN ?", userID, types).
		Update("application_id", applicationID)
	return res.RowsAffected, res.Error
}
