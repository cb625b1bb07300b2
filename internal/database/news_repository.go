package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhemdNada/alx-company/internal/domain"
)

type NewsRepo struct {
	pool *pgxpool.Pool
}

func NewNewsRepo(pool *pgxpool.Pool) *NewsRepo {
	return &NewsRepo{pool: pool}
}

func (r *NewsRepo) List(ctx context.Context) ([]domain.NewsItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, summary, content, created_at
		FROM news
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	items := []domain.NewsItem{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var item domain.NewsItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Summary, &item.Content, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		item.Images = []domain.NewsImage{}
		index[item.ID] = len(items)
		ids = append(ids, item.ID)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	imgRows, err := r.pool.Query(ctx, `
		SELECT news_id, id, url, orientation, position
		FROM news_images
		WHERE news_id = ANY($1)
		ORDER BY news_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list news images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var newsID int64
		var img domain.NewsImage
		if err := imgRows.Scan(&newsID, &img.ID, &img.URL, &img.Orientation, &img.Position); err != nil {
			return nil, fmt.Errorf("failed to scan news image: %w", err)
		}
		i := index[newsID]
		items[i].Images = append(items[i].Images, img)
	}
	return items, imgRows.Err()
}

func (r *NewsRepo) GetByID(ctx context.Context, id int64) (*domain.NewsItem, error) {
	return getNewsItem(ctx, r.pool, id)
}

func (r *NewsRepo) Create(ctx context.Context, fields domain.NewsFields, images []domain.NewNewsImage) (*domain.NewsItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO news (title, summary, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`, fields.Title, fields.Summary, fields.Content).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create news item: %w", err)
	}

	for i, img := range images {
		_, err := tx.Exec(ctx, `
			INSERT INTO news_images (news_id, url, orientation, position)
			VALUES ($1, $2, $3, $4)
		`, id, img.URL, img.Orientation, i)
		if err != nil {
			return nil, fmt.Errorf("failed to insert news image: %w", err)
		}
	}

	item, err := getNewsItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item, nil
}

// Update reconciles the item's images against keepURLs: existing images whose
// URL is not kept are removed, survivors keep their relative order and new
// images are appended after them. The URLs of removed images are returned so
// the caller can release the backing files.
func (r *NewsRepo) Update(ctx context.Context, id int64, fields domain.NewsFields, keepURLs []string, newImages []domain.NewNewsImage) (*domain.NewsItem, []string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE news
		SET title = $1, summary = $2, content = $3, updated_at = NOW()
		WHERE id = $4
	`, fields.Title, fields.Summary, fields.Content, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update news item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil, domain.ErrNewsItemNotFound
	}

	existing, err := loadChildImages(ctx, tx, "news_images", "news_id", id)
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
			if _, err := tx.Exec(ctx, `DELETE FROM news_images WHERE id = $1`, img.id); err != nil {
				return nil, nil, fmt.Errorf("failed to delete news image: %w", err)
			}
		}
	}

	// Survivors keep their relative order; appended images follow.
	for i, img := range survivors {
		if img.position == i {
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE news_images SET position = $1 WHERE id = $2`, i, img.id); err != nil {
			return nil, nil, fmt.Errorf("failed to reposition news image: %w", err)
		}
	}
	for i, img := range newImages {
		_, err := tx.Exec(ctx, `
			INSERT INTO news_images (news_id, url, orientation, position)
			VALUES ($1, $2, $3, $4)
		`, id, img.URL, img.Orientation, len(survivors)+i)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert news image: %w", err)
		}
	}

	item, err := getNewsItem(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item, removed, nil
}

// Delete removes the item (images cascade) and returns the image URLs so the
// caller can release the files. Deleting an absent item is a no-op.
func (r *NewsRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	urls, err := collectChildURLs(ctx, tx, "news_images", "news_id", id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM news WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete news item: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return urls, nil
}

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getNewsItem(ctx context.Context, q querier, id int64) (*domain.NewsItem, error) {
	var item domain.NewsItem
	err := q.QueryRow(ctx, `
		SELECT id, title, summary, content, created_at
		FROM news
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Title, &item.Summary, &item.Content, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNewsItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}

	item.Images = []domain.NewsImage{}
	rows, err := q.Query(ctx, `
		SELECT id, url, orientation, position
		FROM news_images
		WHERE news_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get news images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.NewsImage
		if err := rows.Scan(&img.ID, &img.URL, &img.Orientation, &img.Position); err != nil {
			return nil, fmt.Errorf("failed to scan news image: %w", err)
		}
		item.Images = append(item.Images, img)
	}
	return &item, rows.Err()
}

type childImage struct {
	id       int64
	url      string
	position int
}

func loadChildImages(ctx context.Context, q querier, table, fk string, parentID int64) ([]childImage, error) {
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT id, url, position FROM %s WHERE %s = $1 ORDER BY position`, table, fk),
		parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	images := []childImage{}
	for rows.Next() {
		var img childImage
		if err := rows.Scan(&img.id, &img.url, &img.position); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func collectChildURLs(ctx context.Context, q querier, table, fk string, parentID int64) ([]string, error) {
	images, err := loadChildImages(ctx, q, table, fk, parentID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.url)
	}
	return urls, nil
}
