// Package app contains the application services between the HTTP handlers
// and the repositories. Services own the side-effect ordering of every write:
// database first, then the cache, then the broadcast. Cache and broadcast
// failures are absorbed here and never surface to the caller.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/AhemdNada/alx-company/internal/cache"
	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// FileReleaser deletes the file behind a public upload URL. Implementations
// must tolerate foreign URLs and already-deleted files.
type FileReleaser interface {
	Remove(url string) error
}

// ContentService implements all public and admin content operations.
type ContentService struct {
	rates    domain.SharingRateRepository
	chairmen domain.ChairmanRepository
	news     domain.NewsRepository
	ticker   domain.TickerRepository
	projects domain.ProjectRepository

	cache       cache.Store
	broadcaster domain.Broadcaster
	files       FileReleaser
}

// NewContentService wires the content service.
func NewContentService(
	rates domain.SharingRateRepository,
	chairmen domain.ChairmanRepository,
	news domain.NewsRepository,
	ticker domain.TickerRepository,
	projects domain.ProjectRepository,
	store cache.Store,
	broadcaster domain.Broadcaster,
	files FileReleaser,
) *ContentService {
	return &ContentService{
		rates:       rates,
		chairmen:    chairmen,
		news:        news,
		ticker:      ticker,
		projects:    projects,
		cache:       store,
		broadcaster: broadcaster,
		files:       files,
	}
}

// releaseFiles best-effort deletes uploaded files. A leaked file is an
// operational annoyance, not a request failure.
func (s *ContentService) releaseFiles(urls []string) {
	for _, url := range urls {
		if err := s.files.Remove(url); err != nil {
			slog.Error("Failed to remove uploaded file", "url", url, "error", err)
		}
	}
}

// ---- sharing rates ----

func (s *ContentService) ListSharingRates(ctx context.Context) ([]domain.SharingRate, error) {
	rates, err := s.rates.List(ctx)
	if err != nil {
		return nil, apperrors.InternalError("failed to load sharing rates", err)
	}
	return rates, nil
}

func (s *ContentService) CreateSharingRate(ctx context.Context, title string, percentage float64) (*domain.SharingRate, error) {
	rate, err := s.rates.Create(ctx, title, percentage)
	if err != nil {
		return nil, apperrors.InternalError("failed to create sharing rate", err)
	}
	s.broadcaster.Broadcast(domain.EventSharingRates, domain.Created(rate))
	return rate, nil
}

func (s *ContentService) UpdateSharingRate(ctx context.Context, id int64, title string, percentage float64) (*domain.SharingRate, error) {
	rate, err := s.rates.Update(ctx, id, title, percentage)
	if errors.Is(err, domain.ErrSharingRateNotFound) {
		return nil, apperrors.NotFoundError("Sharing rate not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to update sharing rate", err)
	}
	s.broadcaster.Broadcast(domain.EventSharingRates, domain.Updated(rate))
	return rate, nil
}

// DeleteSharingRate removes a rate. Deleting an absent rate succeeds; the
// deletion event still goes out so stale listeners converge.
func (s *ContentService) DeleteSharingRate(ctx context.Context, id int64) error {
	if err := s.rates.Delete(ctx, id); err != nil {
		return apperrors.InternalError("failed to delete sharing rate", err)
	}
	s.broadcaster.Broadcast(domain.EventSharingRates, domain.Deleted(id))
	return nil
}

// ---- chairmen ----

func (s *ContentService) ListChairmen(ctx context.Context) ([]domain.Chairman, error) {
	chairmen, err := s.chairmen.List(ctx)
	if err != nil {
		return nil, apperrors.InternalError("failed to load chairmen", err)
	}
	return chairmen, nil
}

func (s *ContentService) GetChairman(ctx context.Context, id int64) (*domain.Chairman, error) {
	chairman, err := s.chairmen.GetByID(ctx, id)
	if errors.Is(err, domain.ErrChairmanNotFound) {
		return nil, apperrors.NotFoundError("Chairman not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to load chairman", err)
	}
	return chairman, nil
}

func (s *ContentService) CreateChairman(ctx context.Context, fields domain.ChairmanFields) (*domain.Chairman, error) {
	chairman, err := s.chairmen.Create(ctx, fields)
	if err != nil {
		return nil, apperrors.InternalError("failed to create chairman", err)
	}
	s.broadcaster.Broadcast(domain.EventChairmen, domain.Created(chairman))
	return chairman, nil
}

// UpdateChairman replaces the chairman's fields. fields.ImageURL is the final
// image; when it differs from the stored one the old file is released.
func (s *ContentService) UpdateChairman(ctx context.Context, id int64, fields domain.ChairmanFields) (*domain.Chairman, error) {
	existing, err := s.chairmen.GetByID(ctx, id)
	if errors.Is(err, domain.ErrChairmanNotFound) {
		return nil, apperrors.NotFoundError("Chairman not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to load chairman", err)
	}

	chairman, err := s.chairmen.Update(ctx, id, fields)
	if errors.Is(err, domain.ErrChairmanNotFound) {
		return nil, apperrors.NotFoundError("Chairman not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to update chairman", err)
	}

	if old := existing.ImageURL; old != nil && (fields.ImageURL == nil || *fields.ImageURL != *old) {
		s.releaseFiles([]string{*old})
	}
	s.broadcaster.Broadcast(domain.EventChairmen, domain.Updated(chairman))
	return chairman, nil
}

// DeleteChairman removes a chairman and his portrait file. Deleting an absent
// chairman is a no-op.
func (s *ContentService) DeleteChairman(ctx context.Context, id int64) error {
	existing, err := s.chairmen.GetByID(ctx, id)
	if errors.Is(err, domain.ErrChairmanNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.InternalError("failed to load chairman", err)
	}

	if err := s.chairmen.Delete(ctx, id); err != nil {
		return apperrors.InternalError("failed to delete chairman", err)
	}
	if existing.ImageURL != nil {
		s.releaseFiles([]string{*existing.ImageURL})
	}
	s.broadcaster.Broadcast(domain.EventChairmen, domain.Deleted(id))
	return nil
}

// ---- news ticker ----

func (s *ContentService) ListTicker(ctx context.Context) ([]domain.TickerMessage, error) {
	messages, err := s.ticker.List(ctx)
	if err != nil {
		return nil, apperrors.InternalError("failed to load ticker messages", err)
	}
	return messages, nil
}

func (s *ContentService) CreateTicker(ctx context.Context, message string, isActive bool) (*domain.TickerMessage, error) {
	ticker, err := s.ticker.Create(ctx, message, isActive)
	if err != nil {
		return nil, apperrors.InternalError("failed to create ticker message", err)
	}
	return ticker, nil
}

func (s *ContentService) UpdateTicker(ctx context.Context, id int64, message string, isActive bool) (*domain.TickerMessage, error) {
	ticker, err := s.ticker.Update(ctx, id, message, isActive)
	if errors.Is(err, domain.ErrTickerNotFound) {
		return nil, apperrors.NotFoundError("Ticker message not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to update ticker message", err)
	}
	return ticker, nil
}

func (s *ContentService) DeleteTicker(ctx context.Context, id int64) error {
	if err := s.ticker.Delete(ctx, id); err != nil {
		return apperrors.InternalError("failed to delete ticker message", err)
	}
	return nil
}

// ---- news ----

func (s *ContentService) ListNews(ctx context.Context) ([]domain.NewsItem, error) {
	items, err := s.news.List(ctx)
	if err != nil {
		return nil, apperrors.InternalError("failed to load news", err)
	}
	return items, nil
}

// GetNews reads through the snapshot cache. A hit skips the database
// entirely; a miss fetches, repopulates the cache and returns.
func (s *ContentService) GetNews(ctx context.Context, id int64) (*domain.NewsItem, error) {
	key := cache.NewsKey(id)
	if data, ok := s.cache.Get(ctx, key); ok {
		var item domain.NewsItem
		if err := json.Unmarshal(data, &item); err == nil {
			return &item, nil
		}
		slog.Warn("Discarding unreadable cache snapshot", "key", key)
	}

	item, err := s.news.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNewsItemNotFound) {
		return nil, apperrors.NotFoundError("News item not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to load news item", err)
	}
	s.cacheSnapshot(ctx, key, item)
	return item, nil
}

func (s *ContentService) CreateNews(ctx context.Context, fields domain.NewsFields, images []domain.NewNewsImage) (*domain.NewsItem, error) {
	item, err := s.news.Create(ctx, fields, images)
	if err != nil {
		return nil, apperrors.InternalError("failed to create news item", err)
	}
	s.cacheSnapshot(ctx, cache.NewsKey(item.ID), item)
	s.broadcaster.Broadcast(domain.EventNews, domain.Created(item))
	return item, nil
}

func (s *ContentService) UpdateNews(ctx context.Context, id int64, fields domain.NewsFields, keepURLs []string, newImages []domain.NewNewsImage) (*domain.NewsItem, error) {
	item, removed, err := s.news.Update(ctx, id, fields, keepURLs, newImages)
	if errors.Is(err, domain.ErrNewsItemNotFound) {
		return nil, apperrors.NotFoundError("News item not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to update news item", err)
	}
	s.cacheSnapshot(ctx, cache.NewsKey(id), item)
	s.releaseFiles(removed)
	s.broadcaster.Broadcast(domain.EventNews, domain.Updated(item))
	return item, nil
}

func (s *ContentService) DeleteNews(ctx context.Context, id int64) error {
	urls, err := s.news.Delete(ctx, id)
	if err != nil {
		return apperrors.InternalError("failed to delete news item", err)
	}
	s.cache.Delete(ctx, cache.NewsKey(id))
	s.releaseFiles(urls)
	s.broadcaster.Broadcast(domain.EventNews, domain.Deleted(id))
	return nil
}

// ---- projects ----

func (s *ContentService) ListProjects(ctx context.Context, category *domain.ProjectCategory) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx, category)
	if err != nil {
		return nil, apperrors.InternalError("failed to load projects", err)
	}
	return projects, nil
}

func (s *ContentService) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	key := cache.ProjectKey(id)
	if data, ok := s.cache.Get(ctx, key); ok {
		var project domain.Project
		if err := json.Unmarshal(data, &project); err == nil {
			return &project, nil
		}
		slog.Warn("Discarding unreadable cache snapshot", "key", key)
	}

	project, err := s.projects.GetByID(ctx, id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil, apperrors.NotFoundError("Project not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to load project", err)
	}
	s.cacheSnapshot(ctx, key, project)
	return project, nil
}

func (s *ContentService) CreateProject(ctx context.Context, fields domain.ProjectFields, imageURLs []string, details []domain.DetailFields) (*domain.Project, error) {
	project, err := s.projects.Create(ctx, fields, imageURLs, details)
	if err != nil {
		return nil, apperrors.InternalError("failed to create project", err)
	}
	s.cacheSnapshot(ctx, cache.ProjectKey(project.ID), project)
	s.broadcaster.Broadcast(domain.EventProjects, domain.Created(project))
	return project, nil
}

func (s *ContentService) UpdateProject(ctx context.Context, id int64, fields domain.ProjectFields, keepURLs []string, newImageURLs []string, details []domain.DetailFields) (*domain.Project, error) {
	project, removed, err := s.projects.Update(ctx, id, fields, keepURLs, newImageURLs, details)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil, apperrors.NotFoundError("Project not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to update project", err)
	}
	s.cacheSnapshot(ctx, cache.ProjectKey(id), project)
	s.releaseFiles(removed)
	s.broadcaster.Broadcast(domain.EventProjects, domain.Updated(project))
	return project, nil
}

func (s *ContentService) DeleteProject(ctx context.Context, id int64) error {
	urls, err := s.projects.Delete(ctx, id)
	if err != nil {
		return apperrors.InternalError("failed to delete project", err)
	}
	s.cache.Delete(ctx, cache.ProjectKey(id))
	s.releaseFiles(urls)
	s.broadcaster.Broadcast(domain.EventProjects, domain.Deleted(id))
	return nil
}

// cacheSnapshot stores the JSON form of a composite item. A snapshot that
// cannot be marshalled is skipped; readers fall back to the database.
func (s *ContentService) cacheSnapshot(ctx context.Context, key string, item any) {
	data, err := json.Marshal(item)
	if err != nil {
		slog.Warn("Failed to marshal cache snapshot", "key", key, "error", err)
		return
	}
	s.cache.Set(ctx, key, data)
}
