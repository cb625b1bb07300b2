package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhemdNada/alx-company/internal/domain"
)

type SharingRateRepo struct {
	pool *pgxpool.Pool
}

func NewSharingRateRepo(pool *pgxpool.Pool) *SharingRateRepo {
	return &SharingRateRepo{pool: pool}
}

func (r *SharingRateRepo) List(ctx context.Context) ([]domain.SharingRate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, percentage
		FROM sharing_rates
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sharing rates: %w", err)
	}
	defer rows.Close()

	rates := []domain.SharingRate{}
	for rows.Next() {
		var rate domain.SharingRate
		if err := rows.Scan(&rate.ID, &rate.Title, &rate.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan sharing rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *SharingRateRepo) Create(ctx context.Context, title string, percentage float64) (*domain.SharingRate, error) {
	rate := domain.SharingRate{Title: title, Percentage: percentage}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sharing_rates (title, percentage)
		VALUES ($1, $2)
		RETURNING id
	`, title, percentage).Scan(&rate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create sharing rate: %w", err)
	}
	return &rate, nil
}

func (r *SharingRateRepo) Update(ctx context.Context, id int64, title string, percentage float64) (*domain.SharingRate, error) {
	rate := domain.SharingRate{ID: id}
	err := r.pool.QueryRow(ctx, `
		UPDATE sharing_rates
		SET title = $1, percentage = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING title, percentage
	`, title, percentage, id).Scan(&rate.Title, &rate.Percentage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSharingRateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update sharing rate: %w", err)
	}
	return &rate, nil
}

// Delete is idempotent: deleting an absent row is not an error.
func (r *SharingRateRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sharing_rates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete sharing rate: %w", err)
	}
	return nil
}
