package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AhemdNada/alx-company/internal/config"
	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
	"github.com/AhemdNada/alx-company/internal/recaptcha"
	"github.com/AhemdNada/alx-company/internal/sse"
	"github.com/AhemdNada/alx-company/internal/upload"
)

// fakeContent implements ContentAPI through overridable function fields; the
// embedded interface panics on anything a test did not set up.
type fakeContent struct {
	ContentAPI
	createRateFn  func(ctx context.Context, title string, percentage float64) (*domain.SharingRate, error)
	updateRateFn  func(ctx context.Context, id int64, title string, percentage float64) (*domain.SharingRate, error)
	deleteRateFn  func(ctx context.Context, id int64) error
	getNewsFn     func(ctx context.Context, id int64) (*domain.NewsItem, error)
	createNewsFn  func(ctx context.Context, fields domain.NewsFields, images []domain.NewNewsImage) (*domain.NewsItem, error)
	updateNewsFn  func(ctx context.Context, id int64, fields domain.NewsFields, keep []string, images []domain.NewNewsImage) (*domain.NewsItem, error)
	listProjectFn func(ctx context.Context, category *domain.ProjectCategory) ([]domain.Project, error)
}

func (f *fakeContent) CreateSharingRate(ctx context.Context, title string, percentage float64) (*domain.SharingRate, error) {
	return f.createRateFn(ctx, title, percentage)
}

func (f *fakeContent) UpdateSharingRate(ctx context.Context, id int64, title string, percentage float64) (*domain.SharingRate, error) {
	return f.updateRateFn(ctx, id, title, percentage)
}

func (f *fakeContent) DeleteSharingRate(ctx context.Context, id int64) error {
	return f.deleteRateFn(ctx, id)
}

func (f *fakeContent) GetNews(ctx context.Context, id int64) (*domain.NewsItem, error) {
	return f.getNewsFn(ctx, id)
}

func (f *fakeContent) CreateNews(ctx context.Context, fields domain.NewsFields, images []domain.NewNewsImage) (*domain.NewsItem, error) {
	return f.createNewsFn(ctx, fields, images)
}

func (f *fakeContent) UpdateNews(ctx context.Context, id int64, fields domain.NewsFields, keep []string, images []domain.NewNewsImage) (*domain.NewsItem, error) {
	return f.updateNewsFn(ctx, id, fields, keep, images)
}

func (f *fakeContent) ListProjects(ctx context.Context, category *domain.ProjectCategory) ([]domain.Project, error) {
	return f.listProjectFn(ctx, category)
}

type fakeContacts struct {
	ContactAPI
	createFn      func(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error)
	listFn        func(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error)
	markRepliedFn func(ctx context.Context, id int64, replied bool) (*domain.ContactMessage, error)
	deleteFn      func(ctx context.Context, id int64) error
}

func (f *fakeContacts) Create(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
	return f.createFn(ctx, name, email, subject, message)
}

func (f *fakeContacts) List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeContacts) MarkReplied(ctx context.Context, id int64, replied bool) (*domain.ContactMessage, error) {
	return f.markRepliedFn(ctx, id, replied)
}

func (f *fakeContacts) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:            "0",
		UploadDir:       t.TempDir(),
		RateLimitWindow: time.Minute,
		RateLimitMax:    5,
	}
}

func newTestServer(t *testing.T, content ContentAPI, contacts ContactAPI) *Server {
	t.Helper()

	uploads, err := upload.NewStorage(t.TempDir())
	require.NoError(t, err)

	return NewServer(
		testConfig(t),
		content,
		contacts,
		sse.NewHub(),
		uploads,
		recaptcha.NewClient(""),
		fakePinger{},
		clockwork.NewFakeClock(),
	)
}

func doJSON(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echoHeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ---- sharing rates ----

func TestCreateSharingRate(t *testing.T) {
	content := &fakeContent{
		createRateFn: func(ctx context.Context, title string, percentage float64) (*domain.SharingRate, error) {
			return &domain.SharingRate{ID: 1, Title: title, Percentage: percentage}, nil
		},
	}
	s := newTestServer(t, content, &fakeContacts{})

	rec := doJSON(s, http.MethodPost, "/api/sharing-rates", `{"title":"Government","percentage":42.5}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var rate domain.SharingRate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rate))
	assert.Equal(t, "Government", rate.Title)
	assert.Equal(t, 42.5, rate.Percentage)
}

func TestCreateSharingRateRejectsOutOfRangePercentage(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	rec := doJSON(s, http.MethodPost, "/api/sharing-rates", `{"title":"Over","percentage":120}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "percentage", resp.Errors[0].Field)
}

func TestCreateSharingRateRequiresPercentage(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	rec := doJSON(s, http.MethodPost, "/api/sharing-rates", `{"title":"Missing"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "percentage", resp.Errors[0].Field)
}

func TestUpdateSharingRateNotFound(t *testing.T) {
	content := &fakeContent{
		updateRateFn: func(ctx context.Context, id int64, title string, percentage float64) (*domain.SharingRate, error) {
			return nil, apperrors.NotFoundError("Sharing rate not found")
		},
	}
	s := newTestServer(t, content, &fakeContacts{})

	rec := doJSON(s, http.MethodPut, "/api/sharing-rates/99", `{"title":"x","percentage":1}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Sharing rate not found", decodeErrorResponse(t, rec).Message)
}

func TestDeleteSharingRateReturns204(t *testing.T) {
	content := &fakeContent{
		deleteRateFn: func(ctx context.Context, id int64) error { return nil },
	}
	s := newTestServer(t, content, &fakeContacts{})

	rec := doJSON(s, http.MethodDelete, "/api/sharing-rates/3", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPathIDMustBeNumeric(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	rec := doJSON(s, http.MethodDelete, "/api/sharing-rates/abc", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "id", resp.Errors[0].Field)
}

// ---- news ----

func TestGetNewsNotFound(t *testing.T) {
	content := &fakeContent{
		getNewsFn: func(ctx context.Context, id int64) (*domain.NewsItem, error) {
			return nil, apperrors.NotFoundError("News item not found")
		},
	}
	s := newTestServer(t, content, &fakeContacts{})

	rec := doJSON(s, http.MethodGet, "/api/news/404", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateNewsMultipart(t *testing.T) {
	var gotImages []domain.NewNewsImage
	content := &fakeContent{
		createNewsFn: func(ctx context.Context, fields domain.NewsFields, images []domain.NewNewsImage) (*domain.NewsItem, error) {
			gotImages = images
			return &domain.NewsItem{ID: 1, Title: fields.Title, Images: []domain.NewsImage{}}, nil
		},
	}
	s := newTestServer(t, content, &fakeContacts{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Refinery expansion"))
	require.NoError(t, w.WriteField("content", "Full article body"))
	require.NoError(t, w.WriteField("orientations", "vertical"))
	part, err := w.CreateFormFile("images", "one.jpg")
	require.NoError(t, err)
	_, err = io.WriteString(part, "img-one")
	require.NoError(t, err)
	part, err = w.CreateFormFile("images", "two.jpg")
	require.NoError(t, err)
	_, err = io.WriteString(part, "img-two")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/news", &buf)
	req.Header.Set(echoHeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, gotImages, 2)
	assert.Equal(t, domain.OrientationVertical, gotImages[0].Orientation)
	assert.Equal(t, domain.OrientationHorizontal, gotImages[1].Orientation, "missing orientations default to horizontal")
	assert.True(t, strings.HasPrefix(gotImages[0].URL, upload.URLPrefix))
}

func TestCreateNewsRejectsBadOrientation(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "t"))
	require.NoError(t, w.WriteField("content", "c"))
	require.NoError(t, w.WriteField("orientations", "diagonal"))
	part, err := w.CreateFormFile("images", "one.jpg")
	require.NoError(t, err)
	_, err = io.WriteString(part, "x")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/news", &buf)
	req.Header.Set(echoHeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "orientations", resp.Errors[0].Field)
}

func TestUpdateNewsFailureReleasesUploads(t *testing.T) {
	content := &fakeContent{
		updateNewsFn: func(ctx context.Context, id int64, fields domain.NewsFields, keep []string, images []domain.NewNewsImage) (*domain.NewsItem, error) {
			return nil, apperrors.NotFoundError("News item not found")
		},
	}
	s := newTestServer(t, content, &fakeContacts{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Refinery expansion"))
	require.NoError(t, w.WriteField("content", "Full article body"))
	part, err := w.CreateFormFile("images", "one.jpg")
	require.NoError(t, err)
	_, err = io.WriteString(part, "img-one")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/news/404", &buf)
	req.Header.Set(echoHeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	entries, err := os.ReadDir(s.uploads.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads saved for a failed update must be removed")
}

// ---- projects ----

func TestListProjectsRejectsUnknownCategory(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	rec := doJSON(s, http.MethodGet, "/api/projects?category=bogus", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProjectsPassesCategory(t *testing.T) {
	var got *domain.ProjectCategory
	content := &fakeContent{
		listProjectFn: func(ctx context.Context, category *domain.ProjectCategory) ([]domain.Project, error) {
			got = category
			return []domain.Project{}, nil
		},
	}
	s := newTestServer(t, content, &fakeContacts{})

	rec := doJSON(s, http.MethodGet, "/api/projects?category=major_projects", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, domain.CategoryMajorProjects, *got)
}

// ---- contact ----

func TestSubmitContact(t *testing.T) {
	contacts := &fakeContacts{
		createFn: func(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
			return &domain.ContactMessage{ID: 1, Name: name, Email: email, Subject: subject, Message: message}, nil
		},
	}
	s := newTestServer(t, &fakeContent{}, contacts)

	rec := doJSON(s, http.MethodPost, "/api/contact/submit",
		`{"name":"Ahmed Salah","email":"ahmed@example.com","subject":"Careers","message":"I would like to apply for a position."}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp contactEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestSubmitContactRejectsShortMessage(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	rec := doJSON(s, http.MethodPost, "/api/contact/submit",
		`{"name":"Ahmed","email":"ahmed@example.com","subject":"Hi","message":"short"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "message", resp.Errors[0].Field)
}

func TestSubmitContactRejectsBadNameCharset(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	rec := doJSON(s, http.MethodPost, "/api/contact/submit",
		`{"name":"Ahmed123","email":"ahmed@example.com","subject":"Hi","message":"a perfectly long message"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "name", resp.Errors[0].Field)
}

func TestSubmitContactRateLimited(t *testing.T) {
	contacts := &fakeContacts{
		createFn: func(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
			return &domain.ContactMessage{ID: 1}, nil
		},
	}
	s := newTestServer(t, &fakeContent{}, contacts)
	s.config.RateLimitMax = 2

	// Re-register with the tightened limit.
	s = NewServer(s.config, s.content, s.contacts, s.hub, s.uploads, s.captcha, s.db, s.clock)

	body := `{"name":"Ahmed","email":"ahmed@example.com","subject":"Hi","message":"a perfectly long message"}`
	for i := 0; i < 2; i++ {
		rec := doJSON(s, http.MethodPost, "/api/contact/submit", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(s, http.MethodPost, "/api/contact/submit", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, decodeErrorResponse(t, rec).Success)
}

func TestListContactsRepliedFilter(t *testing.T) {
	var got domain.ContactFilter
	contacts := &fakeContacts{
		listFn: func(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
			got = filter
			return []domain.ContactMessage{}, nil
		},
	}
	s := newTestServer(t, &fakeContent{}, contacts)

	rec := doJSON(s, http.MethodGet, "/api/contact/admin/contacts?is_replied=false", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.IsReplied)
	assert.False(t, *got.IsReplied)
}

func TestMarkContactUnreplied(t *testing.T) {
	var gotReplied *bool
	contacts := &fakeContacts{
		markRepliedFn: func(ctx context.Context, id int64, replied bool) (*domain.ContactMessage, error) {
			gotReplied = &replied
			return &domain.ContactMessage{ID: id, IsReplied: replied}, nil
		},
	}
	s := newTestServer(t, &fakeContent{}, contacts)

	rec := doJSON(s, http.MethodPut, "/api/contact/admin/contacts/4/replied", `{"is_replied":false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotReplied)
	assert.False(t, *gotReplied)
	assert.Contains(t, rec.Body.String(), "unreplied")
}

func TestMarkContactRepliedRequiresBoolean(t *testing.T) {
	contacts := &fakeContacts{
		markRepliedFn: func(ctx context.Context, id int64, replied bool) (*domain.ContactMessage, error) {
			t.Fatal("service must not be called without is_replied")
			return nil, nil
		},
	}
	s := newTestServer(t, &fakeContent{}, contacts)

	rec := doJSON(s, http.MethodPut, "/api/contact/admin/contacts/4/replied", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "is_replied", resp.Errors[0].Field)
}

func TestDeleteContactNotFound(t *testing.T) {
	contacts := &fakeContacts{
		deleteFn: func(ctx context.Context, id int64) error {
			return apperrors.NotFoundError("Contact message not found")
		},
	}
	s := newTestServer(t, &fakeContent{}, contacts)

	rec := doJSON(s, http.MethodDelete, "/api/contact/admin/contacts/77", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- health ----

func TestHealthReportsDatabaseFailure(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})
	s.db = fakePinger{err: context.DeadlineExceeded}

	rec := doJSON(s, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthOK(t *testing.T) {
	s := newTestServer(t, &fakeContent{}, &fakeContacts{})

	rec := doJSON(s, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
