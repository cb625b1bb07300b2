package server

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
)

// ContentAPI is the content surface the handlers call into, implemented by
// app.ContentService.
type ContentAPI interface {
	ListSharingRates(ctx context.Context) ([]domain.SharingRate, error)
	CreateSharingRate(ctx context.Context, title string, percentage float64) (*domain.SharingRate, error)
	UpdateSharingRate(ctx context.Context, id int64, title string, percentage float64) (*domain.SharingRate, error)
	DeleteSharingRate(ctx context.Context, id int64) error

	ListChairmen(ctx context.Context) ([]domain.Chairman, error)
	GetChairman(ctx context.Context, id int64) (*domain.Chairman, error)
	CreateChairman(ctx context.Context, fields domain.ChairmanFields) (*domain.Chairman, error)
	UpdateChairman(ctx context.Context, id int64, fields domain.ChairmanFields) (*domain.Chairman, error)
	DeleteChairman(ctx context.Context, id int64) error

	ListNews(ctx context.Context) ([]domain.NewsItem, error)
	GetNews(ctx context.Context, id int64) (*domain.NewsItem, error)
	CreateNews(ctx context.Context, fields domain.NewsFields, images []domain.NewNewsImage) (*domain.NewsItem, error)
	UpdateNews(ctx context.Context, id int64, fields domain.NewsFields, keepURLs []string, newImages []domain.NewNewsImage) (*domain.NewsItem, error)
	DeleteNews(ctx context.Context, id int64) error

	ListTicker(ctx context.Context) ([]domain.TickerMessage, error)
	CreateTicker(ctx context.Context, message string, isActive bool) (*domain.TickerMessage, error)
	UpdateTicker(ctx context.Context, id int64, message string, isActive bool) (*domain.TickerMessage, error)
	DeleteTicker(ctx context.Context, id int64) error

	ListProjects(ctx context.Context, category *domain.ProjectCategory) ([]domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	CreateProject(ctx context.Context, fields domain.ProjectFields, imageURLs []string, details []domain.DetailFields) (*domain.Project, error)
	UpdateProject(ctx context.Context, id int64, fields domain.ProjectFields, keepURLs []string, newImageURLs []string, details []domain.DetailFields) (*domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// ContactAPI is the contact surface the handlers call into, implemented by
// app.ContactService.
type ContactAPI interface {
	Create(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error)
	List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error)
	Get(ctx context.Context, id int64) (*domain.ContactMessage, error)
	MarkReplied(ctx context.Context, id int64, replied bool) (*domain.ContactMessage, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*domain.ContactStats, error)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.ValidationError("invalid id").WithField("id", "id must be a positive integer")
	}
	return id, nil
}

// formPtr returns the trimmed form value, or nil when the field is empty.
func formPtr(c echo.Context, field string) *string {
	value := strings.TrimSpace(c.FormValue(field))
	if value == "" {
		return nil
	}
	return &value
}

// formBool interprets checkbox-style form values.
func formBool(c echo.Context, field string) bool {
	switch strings.ToLower(strings.TrimSpace(c.FormValue(field))) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// formFile returns the named upload, or nil when the field is absent or the
// request carries no multipart body at all.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ValidationError("invalid multipart form").WithField(field, "could not read uploaded file")
	}
	return file, nil
}

// formFiles returns all uploads under the named field, in submission order.
func formFiles(c echo.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// formValues returns every value submitted under the named field.
func formValues(c echo.Context, field string) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.Value[field]
}
