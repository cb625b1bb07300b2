package domain

import "context"

// ChairmanFields are the writable columns of a chairman row.
type ChairmanFields struct {
	Name        string
	Subtitle    *string
	Description *string
	ImageURL    *string
	IsFeatured  bool
}

// NewsFields are the writable columns of a news row, excluding images.
type NewsFields struct {
	Title   string
	Summary *string
	Content string
}

// NewNewsImage describes an image to attach to a news item. Order matters:
// the first image of a news item is its cover.
type NewNewsImage struct {
	URL         string
	Orientation ImageOrientation
}

// ProjectFields are the writable columns of a project row, excluding children.
type ProjectFields struct {
	Title       string
	Description *string
	Category    ProjectCategory
}

// DetailFields is one key/value detail supplied by the caller. Details carry
// no identity across updates; updates replace the whole set.
type DetailFields struct {
	Label string
	Value string
}

// ContactFilter narrows the admin contact listing.
type ContactFilter struct {
	Search    string
	IsReplied *bool
	Limit     int
	Offset    int
}

type SharingRateRepository interface {
	List(ctx context.Context) ([]SharingRate, error)
	Create(ctx context.Context, title string, percentage float64) (*SharingRate, error)
	Update(ctx context.Context, id int64, title string, percentage float64) (*SharingRate, error)
	Delete(ctx context.Context, id int64) error
}

type ChairmanRepository interface {
	List(ctx context.Context) ([]Chairman, error)
	GetByID(ctx context.Context, id int64) (*Chairman, error)
	// Create and Update clear IsFeatured on every other row when fields set it,
	// inside the same transaction.
	Create(ctx context.Context, fields ChairmanFields) (*Chairman, error)
	Update(ctx context.Context, id int64, fields ChairmanFields) (*Chairman, error)
	Delete(ctx context.Context, id int64) error
}

type NewsRepository interface {
	List(ctx context.Context) ([]NewsItem, error)
	GetByID(ctx context.Context, id int64) (*NewsItem, error)
	Create(ctx context.Context, fields NewsFields, images []NewNewsImage) (*NewsItem, error)
	// Update reconciles the item's images: rows whose URL is absent from
	// keepURLs are deleted, newImages are appended after the survivors. It
	// returns the URLs of removed images so the caller can release the files.
	Update(ctx context.Context, id int64, fields NewsFields, keepURLs []string, newImages []NewNewsImage) (*NewsItem, []string, error)
	// Delete removes the item and returns the URLs of its images.
	Delete(ctx context.Context, id int64) ([]string, error)
}

type TickerRepository interface {
	List(ctx context.Context) ([]TickerMessage, error)
	Create(ctx context.Context, message string, isActive bool) (*TickerMessage, error)
	Update(ctx context.Context, id int64, message string, isActive bool) (*TickerMessage, error)
	Delete(ctx context.Context, id int64) error
}

type ProjectRepository interface {
	List(ctx context.Context, category *ProjectCategory) ([]Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, fields ProjectFields, imageURLs []string, details []DetailFields) (*Project, error)
	// Update reconciles images by keepURLs like NewsRepository.Update and
	// replaces the detail set wholesale. Returns removed image URLs.
	Update(ctx context.Context, id int64, fields ProjectFields, keepURLs []string, newImageURLs []string, details []DetailFields) (*Project, []string, error)
	Delete(ctx context.Context, id int64) ([]string, error)
}

type ContactRepository interface {
	Create(ctx context.Context, name, email, subject, message string) (*ContactMessage, error)
	List(ctx context.Context, filter ContactFilter) ([]ContactMessage, error)
	GetByID(ctx context.Context, id int64) (*ContactMessage, error)
	SetReplied(ctx context.Context, id int64, replied bool) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*ContactStats, error)
}
