package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhemdNada/alx-company/internal/domain"
)

type ContactRepo struct {
	pool *pgxpool.Pool
}

func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{pool: pool}
}

func (r *ContactRepo) Create(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
	contact := domain.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_replied, created_at, updated_at
	`, name, email, subject, message).Scan(&contact.ID, &contact.IsReplied, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return &contact, nil
}

func (r *ContactRepo) List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, is_replied, created_at, updated_at
		FROM contacts
		WHERE TRUE
	`
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR subject ILIKE $%d)`, n, n, n)
	}
	if filter.IsReplied != nil {
		args = append(args, *filter.IsReplied)
		query += fmt.Sprintf(` AND is_replied = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			query += fmt.Sprintf(` OFFSET $%d`, len(args))
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.ContactMessage{}
	for rows.Next() {
		var c domain.ContactMessage
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.IsReplied, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepo) GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	var c domain.ContactMessage
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, subject, message, is_replied, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.IsReplied, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &c, nil
}

func (r *ContactRepo) SetReplied(ctx context.Context, id int64, replied bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE contacts
		SET is_replied = $1, updated_at = NOW()
		WHERE id = $2
	`, replied, id)
	if err != nil {
		return fmt.Errorf("failed to update contact replied status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepo) Stats(ctx context.Context) (*domain.ContactStats, error) {
	var stats domain.ContactStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE NOT is_replied),
			COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE)
		FROM contacts
	`).Scan(&stats.Total, &stats.Unreplied, &stats.Today)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact stats: %w", err)
	}
	return &stats, nil
}
