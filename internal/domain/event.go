package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

// Category classifies an event.
type Category string

const (
	CategoryTechnology Category = "TECHNOLOGY"
	CategoryMusic      Category = "MUSIC"
	CategorySports     Category = "SPORTS"
	CategoryArt        Category = "ART"
	CategoryBusiness   Category = "BUSINESS"
	CategoryEducation  Category = "EDUCATION"
	CategoryHealth     Category = "HEALTH"
	CategoryOther      Category = "OTHER"
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryTechnology,
	CategoryMusic,
	CategorySports,
	CategoryArt,
	CategoryBusiness,
	CategoryEducation,
	CategoryHealth,
	CategoryOther,
}

// ParseCategory returns the category with exactly the given name.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Event represents a listed event. Latitude and Longitude are both set or both nil.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UserID      int64     `json:"-"`
	User        *User     `json:"user,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// SetCoordinates sets both coordinates, rounded to the stored precision.
func (e *Event) SetCoordinates(c Coordinates) {
	lat := RoundCoordinate(c.Latitude)
	lng := RoundCoordinate(c.Longitude)
	e.Latitude = &lat
	e.Longitude = &lng
}

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// RoundCoordinate rounds a degree value to 6 decimal places.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// EventInput holds the validated fields for creating an event.
type EventInput struct {
	Title       string
	Date        time.Time
	Location    string
	Category    Category
	Description string
	Latitude    *float64
	Longitude   *float64
}

// EventPatch holds the fields of a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Date        *time.Time
	Location    *string
	Category    *Category
	Description *string
	Latitude    *float64
	Longitude   *float64
}

// SortField is a sortable event column.
type SortField string

const (
	SortByDate  SortField = "date"
	SortByTitle SortField = "title"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// EventSort orders a FindMany result. Ties are broken by id ascending.
type EventSort struct {
	Field SortField
	Order SortOrder
}

// EventFilter restricts FindMany. Zero-valued fields do not filter; all set fields AND together.
type EventFilter struct {
	// Day matches events whose date falls on the same calendar day (UTC).
	Day *time.Time
	// DateEquals matches events whose date is exactly this timestamp.
	DateEquals *time.Time
	Category   Category
	// TitleSearch is a case-insensitive substring of the title.
	TitleSearch    string
	OwnerID        int64
	ExcludeID      int64
	HasCoordinates bool
}

// ListEventsQuery is the input of EventService.FindAll.
type ListEventsQuery struct {
	Day        *time.Time
	Category   Category
	Search     string
	OnlyMine   bool
	Pagination PaginationParams
	Sort       EventSort
}

// SimilarityMode selects the strategy for FindSimilar.
type SimilarityMode string

const (
	SimilarByCategory SimilarityMode = "category"
	SimilarByDate     SimilarityMode = "date"
	SimilarByLocation SimilarityMode = "location"
)

// ParseSimilarityMode parses a mode case-insensitively.
func ParseSimilarityMode(s string) (SimilarityMode, bool) {
	switch SimilarityMode(strings.ToLower(strings.TrimSpace(s))) {
	case SimilarByCategory:
		return SimilarByCategory, true
	case SimilarByDate:
		return SimilarByDate, true
	case SimilarByLocation:
		return SimilarByLocation, true
	}
	return "", false
}

// SimilarQuery is the input of EventService.FindSimilar.
type SimilarQuery struct {
	Mode       SimilarityMode
	Pagination PaginationParams
}

// EventRepository defines the interface for event storage.
// FindMany returns the page of matching events plus the total match count; a nil page returns every match.
type EventRepository interface {
	FindByID(ctx context.Context, id int64) (*Event, error)
	FindMany(ctx context.Context, filter EventFilter, sort *EventSort, page *PaginationParams) ([]*Event, int, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
}

// Geocoder maps a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// EventService defines the query engine and CRUD orchestration for events.
type EventService interface {
	FindAll(ctx context.Context, query ListEventsQuery, callerID int64) (*Page[*Event], error)
	FindOne(ctx context.Context, id int64) (*Event, error)
	FindSimilar(ctx context.Context, id int64, query SimilarQuery) (*Page[*Event], error)
	Create(ctx context.Context, input EventInput, owner *User) (*Event, error)
	// Update merges patch into event (already loaded by the caller) and persists it.
	Update(ctx context.Context, event *Event, patch EventPatch) (*Event, error)
	// Remove deletes event and returns its prior representation.
	Remove(ctx context.Context, event *Event) (*Event, error)
	// Authorize enforces owner-or-admin on event id. It returns the loaded event,
	// or nil for admins, who are allowed without a read.
	Authorize(ctx context.Context, caller *User, id int64) (*Event, error)
}
