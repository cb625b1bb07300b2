package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhemdNada/alx-company/internal/domain"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

func (r *ProjectRepo) List(ctx context.Context, category *domain.ProjectCategory) ([]domain.Project, error) {
	query := `
		SELECT id, title, description, category, created_at
		FROM projects
	`
	args := []any{}
	if category != nil {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Images = []domain.ProjectImage{}
		p.Details = []domain.ProjectDetail{}
		index[p.ID] = len(projects)
		ids = append(ids, p.ID)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return projects, nil
	}

	imgRows, err := r.pool.Query(ctx, `
		SELECT project_id, id, url, position
		FROM project_images
		WHERE project_id = ANY($1)
		ORDER BY project_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list project images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var projectID int64
		var img domain.ProjectImage
		if err := imgRows.Scan(&projectID, &img.ID, &img.URL, &img.Position); err != nil {
			return nil, fmt.Errorf("failed to scan project image: %w", err)
		}
		i := index[projectID]
		projects[i].Images = append(projects[i].Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return nil, err
	}

	detailRows, err := r.pool.Query(ctx, `
		SELECT project_id, id, label, value
		FROM project_details
		WHERE project_id = ANY($1)
		ORDER BY project_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list project details: %w", err)
	}
	defer detailRows.Close()

	for detailRows.Next() {
		var projectID int64
		var d domain.ProjectDetail
		if err := detailRows.Scan(&projectID, &d.ID, &d.Label, &d.Value); err != nil {
			return nil, fmt.Errorf("failed to scan project detail: %w", err)
		}
		i := index[projectID]
		projects[i].Details = append(projects[i].Details, d)
	}
	return projects, detailRows.Err()
}

func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return getProject(ctx, r.pool, id)
}

func (r *ProjectRepo) Create(ctx context.Context, fields domain.ProjectFields, imageURLs []string, details []domain.DetailFields) (*domain.Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO projects (title, description, category)
		VALUES ($1, $2, $3)
		RETURNING id
	`, fields.Title, fields.Description, fields.Category).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	for i, url := range imageURLs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_images (project_id, url, position)
			VALUES ($1, $2, $3)
		`, id, url, i); err != nil {
			return nil, fmt.Errorf("failed to insert project image: %w", err)
		}
	}
	if err := insertProjectDetails(ctx, tx, id, details); err != nil {
		return nil, err
	}

	project, err := getProject(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return project, nil
}

// Update reconciles images by keepURLs exactly like NewsRepo.Update. Details
// carry no identity across updates, so the whole set is replaced with the
// supplied one.
func (r *ProjectRepo) Update(ctx context.Context, id int64, fields domain.ProjectFields, keepURLs []string, newImageURLs []string, details []domain.DetailFields) (*domain.Project, []string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE projects
		SET title = $1, description = $2, category = $3, updated_at = NOW()
		WHERE id = $4
	`, fields.Title, fields.Description, fields.Category, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil, domain.ErrProjectNotFound
	}

	existing, err := loadChildImages(ctx, tx, "project_images", "project_id", id)
	if err != nil {
		return nil, nil, err
	}

	keep := make(map[string]bool, len(keepURLs))
	for _, url := range keepURLs {
		keep[url] = true
	}

	removed := []string{}
	survivors := []childImage{}
	for _, img := range existing {
		if keep[img.url] {
			survivors = append(survivors, img)
		} else {
			removed = append(removed, img.url)
			if _, err := tx.Exec(ctx, `DELETE FROM project_images WHERE id = $1`, img.id); err != nil {
				return nil, nil, fmt.Errorf("failed to delete project image: %w", err)
			}
		}
	}
	for i, img := range survivors {
		if img.position == i {
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE project_images SET position = $1 WHERE id = $2`, i, img.id); err != nil {
			return nil, nil, fmt.Errorf("failed to reposition project image: %w", err)
		}
	}
	for i, url := range newImageURLs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_images (project_id, url, position)
			VALUES ($1, $2, $3)
		`, id, url, len(survivors)+i); err != nil {
			return nil, nil, fmt.Errorf("failed to insert project image: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_details WHERE project_id = $1`, id); err != nil {
		return nil, nil, fmt.Errorf("failed to clear project details: %w", err)
	}
	if err := insertProjectDetails(ctx, tx, id, details); err != nil {
		return nil, nil, err
	}

	project, err := getProject(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return project, removed, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	urls, err := collectChildURLs(ctx, tx, "project_images", "project_id", id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return urls, nil
}

func insertProjectDetails(ctx context.Context, tx pgx.Tx, projectID int64, details []domain.DetailFields) error {
	for i, d := range details {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_details (project_id, label, value, position)
			VALUES ($1, $2, $3, $4)
		`, projectID, d.Label, d.Value, i); err != nil {
			return fmt.Errorf("failed to insert project detail: %w", err)
		}
	}
	return nil
}

func getProject(ctx context.Context, q querier, id int64) (*domain.Project, error) {
	var p domain.Project
	err := q.QueryRow(ctx, `
		SELECT id, title, description, category, created_at
		FROM projects
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	p.Images = []domain.ProjectImage{}
	imgRows, err := q.Query(ctx, `
		SELECT id, url, position
		FROM project_images
		WHERE project_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project images: %w", err)
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img domain.ProjectImage
		if err := imgRows.Scan(&img.ID, &img.URL, &img.Position); err != nil {
			return nil, fmt.Errorf("failed to scan project image: %w", err)
		}
		p.Images = append(p.Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return nil, err
	}

	p.Details = []domain.ProjectDetail{}
	detailRows, err := q.Query(ctx, `
		SELECT id, label, value
		FROM project_details
		WHERE project_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project details: %w", err)
	}
	defer detailRows.Close()
	for detailRows.Next() {
		var d domain.ProjectDetail
		if err := detailRows.Scan(&d.ID, &d.Label, &d.Value); err != nil {
			return nil, fmt.Errorf("failed to scan project detail: %w", err)
		}
		p.Details = append(p.Details, d)
	}
	return &p, detailRows.Err()
}
