package domain

import "time"

// ImageOrientation controls how the frontend lays out a news image.
type ImageOrientation string

const (
	OrientationVertical   ImageOrientation = "vertical"
	OrientationHorizontal ImageOrientation = "horizontal"
)

// Valid reports whether o is a known orientation.
func (o ImageOrientation) Valid() bool {
	return o == OrientationVertical || o == OrientationHorizontal
}

// ProjectCategory groups projects on the projects page.
type ProjectCategory string

const (
	CategoryMajorProjects         ProjectCategory = "major_projects"
	CategoryReplacementRenovation ProjectCategory = "replacement_renovation"
	CategoryGeographicalRegion    ProjectCategory = "geographical_region"
)

// Valid reports whether c is a known category.
func (c ProjectCategory) Valid() bool {
	switch c {
	case CategoryMajorProjects, CategoryReplacementRenovation, CategoryGeographicalRegion:
		return true
	}
	return false
}

// SharingRate is one row of the profit sharing table on the landing page.
type SharingRate struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Percentage float64 `json:"percentage"`
}

// Chairman is a board member entry. At most one chairman is featured at a
// time; writes that set IsFeatured clear the flag on every other row.
type Chairman struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	IsFeatured  bool    `json:"isFeatured"`
}

// NewsImage is one ordered image of a news item. Position 0 is the cover.
type NewsImage struct {
	ID          int64            `json:"id"`
	URL         string           `json:"url"`
	Orientation ImageOrientation `json:"orientation"`
	Position    int              `json:"position"`
}

// NewsItem is a news article together with its ordered images.
type NewsItem struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Summary   *string     `json:"summary"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Images    []NewsImage `json:"images"`
}

// CoverURL returns the URL of the first image, or nil when the item has none.
func (n *NewsItem) CoverURL() *string {
	if len(n.Images) == 0 {
		return nil
	}
	return &n.Images[0].URL
}

// TickerMessage is one entry of the scrolling news ticker.
type TickerMessage struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectImage is one ordered image of a project.
type ProjectImage struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// ProjectDetail is a key/value fact shown on the project page.
type ProjectDetail struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Project is a project together with its ordered images and details.
type Project struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Category    ProjectCategory `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
	Images      []ProjectImage  `json:"images"`
	Details     []ProjectDetail `json:"details"`
}

// ContactMessage is a visitor submission from the contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsReplied bool      `json:"is_replied"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactStats summarises the contact inbox for the admin dashboard.
type ContactStats struct {
	Total     int64 `json:"total"`
	Unreplied int64 `json:"unreplied"`
	Today     int64 `json:"today"`
}
