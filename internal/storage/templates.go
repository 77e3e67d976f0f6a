package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/artliftbot/internal/domain"
)

// TemplateRepo persists message templates and their append-only history.
type TemplateRepo struct {
	db *sqlx.DB
}

func NewTemplateRepo(db *sqlx.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

// Get returns the current version of a template.
func (r *TemplateRepo) Get(ctx context.Context, key string) (domain.Template, error) {
	query := `
		SELECT template_key, content, description, updated_at, updated_by
		FROM templates
		WHERE template_key = $1`

	var tpl domain.Template
	if err := r.db.GetContext(ctx, &tpl, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Template{}, domain.ErrNotFound
		}
		return domain.Template{}, fmt.Errorf("templates get: %w", err)
	}
	return tpl, nil
}

// List returns key and description of every template, sorted by key.
func (r *TemplateRepo) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	query := `
		SELECT template_key, description, updated_at
		FROM templates
		ORDER BY template_key`

	infos := []domain.TemplateInfo{}
	if err := r.db.SelectContext(ctx, &infos, query); err != nil {
		return nil, fmt.Errorf("templates list: %w", err)
	}
	return infos, nil
}

// Upsert replaces the current content of a template, attributed to editorID.
// Description is kept on conflict; it is edited through migrations only.
func (r *TemplateRepo) Upsert(ctx context.Context, key, content string, editorID int64) error {
	query := `
		INSERT INTO templates (template_key, content, updated_at, updated_by)
		VALUES ($1, $2, now(), $3)
		ON CONFLICT (template_key) DO UPDATE SET
			content    = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`

	if _, err := r.db.ExecContext(ctx, query, key, content, editorID); err != nil {
		return fmt.Errorf("templates upsert: %w", err)
	}
	return nil
}

// AppendHistory snapshots a template version into the history log.
func (r *TemplateRepo) AppendHistory(ctx context.Context, tpl domain.Template) (int64, error) {
	query := `
		INSERT INTO template_history (template_key, content, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query,
		tpl.Key, tpl.Content, tpl.Description, tpl.UpdatedAt, tpl.UpdatedBy); err != nil {
		return 0, fmt.Errorf("templates append history: %w", err)
	}
	return id, nil
}

// History returns snapshots of a template, newest first, bounded by limit.
func (r *TemplateRepo) History(ctx context.Context, key string, limit int) ([]domain.TemplateRevision, error) {
	query := `
		SELECT id, template_key, content, description, created_at, created_by
		FROM template_history
		WHERE template_key = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	revisions := []domain.TemplateRevision{}
	if err := r.db.SelectContext(ctx, &revisions, query, key, limit); err != nil {
		return nil, fmt.Errorf("templates history: %w", err)
	}
	return revisions, nil
}

// HistoryItem returns one snapshot by id.
func (r *TemplateRepo) HistoryItem(ctx context.Context, historyID int64) (domain.TemplateRevision, error) {
	query := `
		SELECT id, template_key, content, description, created_at, created_by
		FROM template_history
		WHERE id = $1`

	var rev domain.TemplateRevision
	if err := r.db.GetContext(ctx, &rev, query, historyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TemplateRevision{}, domain.ErrNotFound
		}
		return domain.TemplateRevision{}, fmt.Errorf("templates history item: %w", err)
	}
	return rev, nil
}

// DeleteHistoryItem removes one snapshot; current content is unaffected.
func (r *TemplateRepo) DeleteHistoryItem(ctx context.Context, historyID int64) error {
	query := `DELETE FROM template_history WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, historyID)
	if err != nil {
		return fmt.Errorf("templates delete history item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("templates delete history item: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
