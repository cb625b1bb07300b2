package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhemdNada/alx-company/internal/domain"
)

type TickerRepo struct {
	pool *pgxpool.Pool
}

func NewTickerRepo(pool *pgxpool.Pool) *TickerRepo {
	return &TickerRepo{pool: pool}
}

func (r *TickerRepo) List(ctx context.Context) ([]domain.TickerMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, message, is_active, created_at
		FROM news_ticker
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticker messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.TickerMessage{}
	for rows.Next() {
		var msg domain.TickerMessage
		if err := rows.Scan(&msg.ID, &msg.Message, &msg.IsActive, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticker message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *TickerRepo) Create(ctx context.Context, message string, isActive bool) (*domain.TickerMessage, error) {
	msg := domain.TickerMessage{Message: message, IsActive: isActive}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO news_ticker (message, is_active)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, message, isActive).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker message: %w", err)
	}
	return &msg, nil
}

func (r *TickerRepo) Update(ctx context.Context, id int64, message string, isActive bool) (*domain.TickerMessage, error) {
	msg := domain.TickerMessage{ID: id, Message: message, IsActive: isActive}
	err := r.pool.QueryRow(ctx, `
		UPDATE news_ticker
		SET message = $1, is_active = $2
		WHERE id = $3
		RETURNING created_at
	`, message, isActive, id).Scan(&msg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTickerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update ticker message: %w", err)
	}
	return &msg, nil
}

func (r *TickerRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM news_ticker WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete ticker message: %w", err)
	}
	return nil
}
