package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhemdNada/alx-company/internal/domain"
)

type ChairmanRepo struct {
	pool *pgxpool.Pool
}

func NewChairmanRepo(pool *pgxpool.Pool) *ChairmanRepo {
	return &ChairmanRepo{pool: pool}
}

func (r *ChairmanRepo) List(ctx context.Context) ([]domain.Chairman, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, subtitle, description, image_url, is_featured
		FROM chairmen
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chairmen: %w", err)
	}
	defer rows.Close()

	chairmen := []domain.Chairman{}
	for rows.Next() {
		var ch domain.Chairman
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Subtitle, &ch.Description, &ch.ImageURL, &ch.IsFeatured); err != nil {
			return nil, fmt.Errorf("failed to scan chairman: %w", err)
		}
		chairmen = append(chairmen, ch)
	}
	return chairmen, rows.Err()
}

func (r *ChairmanRepo) GetByID(ctx context.Context, id int64) (*domain.Chairman, error) {
	var ch domain.Chairman
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, subtitle, description, image_url, is_featured
		FROM chairmen
		WHERE id = $1
	`, id).Scan(&ch.ID, &ch.Name, &ch.Subtitle, &ch.Description, &ch.ImageURL, &ch.IsFeatured)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrChairmanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chairman: %w", err)
	}
	return &ch, nil
}

// Create inserts a chairman. When fields.IsFeatured is set, the flag is
// cleared on every other row in the same transaction so exactly one chairman
// is featured at a time.
func (r *ChairmanRepo) Create(ctx context.Context, fields domain.ChairmanFields) (*domain.Chairman, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if fields.IsFeatured {
		if _, err := tx.Exec(ctx, `UPDATE chairmen SET is_featured = FALSE WHERE is_featured`); err != nil {
			return nil, fmt.Errorf("failed to clear featured flag: %w", err)
		}
	}

	ch := domain.Chairman{
		Name:        fields.Name,
		Subtitle:    fields.Subtitle,
		Description: fields.Description,
		ImageURL:    fields.ImageURL,
		IsFeatured:  fields.IsFeatured,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO chairmen (name, subtitle, description, image_url, is_featured)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, fields.Name, fields.Subtitle, fields.Description, fields.ImageURL, fields.IsFeatured).Scan(&ch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chairman: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &ch, nil
}

func (r *ChairmanRepo) Update(ctx context.Context, id int64, fields domain.ChairmanFields) (*domain.Chairman, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if fields.IsFeatured {
		if _, err := tx.Exec(ctx, `UPDATE chairmen SET is_featured = FALSE WHERE is_featured AND id <> $1`, id); err != nil {
			return nil, fmt.Errorf("failed to clear featured flag: %w", err)
		}
	}

	ch := domain.Chairman{
		ID:          id,
		Name:        fields.Name,
		Subtitle:    fields.Subtitle,
		Description: fields.Description,
		ImageURL:    fields.ImageURL,
		IsFeatured:  fields.IsFeatured,
	}
	tag, err := tx.Exec(ctx, `
		UPDATE chairmen
		SET name = $1, subtitle = $2, description = $3, image_url = $4, is_featured = $5, updated_at = NOW()
		WHERE id = $6
	`, fields.Name, fields.Subtitle, fields.Description, fields.ImageURL, fields.IsFeatured, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update chairman: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrChairmanNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &ch, nil
}

func (r *ChairmanRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM chairmen WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete chairman: %w", err)
	}
	return nil
}
