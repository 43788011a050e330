package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"eventfinder/internal/domain"
)

type eventService struct {
	repo     domain.EventRepository
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewEventService creates an EventService. geocoder may be nil, in which case
// events without explicit coordinates are stored without them.
func NewEventService(repo domain.EventRepository, geocoder domain.Geocoder, logger *slog.Logger) domain.EventService {
	return &eventService{
		repo:     repo,
		geocoder: geocoder,
		logger:   logger,
	}
}

func (s *eventService) FindAll(ctx context.Context, q domain.ListEventsQuery, callerID int64) (*domain.Page[*domain.Event], error) {
	filter := domain.EventFilter{
		Day:         q.Day,
		Category:    q.Category,
		TitleSearch: q.Search,
	}
	if q.OnlyMine {
		if callerID == 0 {
			return nil, domain.ErrUnauthorized
		}
		filter.OwnerID = callerID
	}
	sortBy := normalizeSort(q.Sort)
	page := q.Pagination.Normalize()

	items, total, err := s.repo.FindMany(ctx, filter, &sortBy, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return domain.NewPage(items, page, total), nil
}

func (s *eventService) FindOne(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) FindSimilar(ctx context.Context, id int64, q domain.SimilarQuery) (*domain.Page[*domain.Event], error) {
	source, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	page := q.Pagination.Normalize()

	var filter domain.EventFilter
	switch q.Mode {
	case domain.SimilarByLocation:
		return s.similarByLocation(ctx, source, page)
	case domain.SimilarByDate:
		filter = domain.EventFilter{DateEquals: &source.Date, ExcludeID: source.ID}
	default:
		filter = domain.EventFilter{Category: source.Category, ExcludeID: source.ID}
	}

	items, total, err := s.repo.FindMany(ctx, filter, nil, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar events: %w", err)
	}
	return domain.NewPage(items, page, total), nil
}

type rankedEvent struct {
	event    *domain.Event
	distance float64
}

func (s *eventService) similarByLocation(ctx context.Context, source *domain.Event, page domain.PaginationParams) (*domain.Page[*domain.Event], error) {
	if !source.HasCoordinates() {
		return nil, domain.ErrNoCoordinates
	}
	candidates, _, err := s.repo.FindMany(ctx, domain.EventFilter{ExcludeID: source.ID, HasCoordinates: true}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load location candidates: %w", err)
	}

	near := make([]rankedEvent, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasCoordinates() {
			continue
		}
		d := haversineKm(*source.Latitude, *source.Longitude, *c.Latitude, *c.Longitude)
		if d <= SimilarRadiusKm {
			near = append(near, rankedEvent{event: c, distance: d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].distance < near[j].distance })

	all := make([]*domain.Event, len(near))
	for i, r := range near {
		all[i] = r.event
	}
	return domain.NewPage(domain.Paginate(all, page), page, len(all)), nil
}

func (s *eventService) Create(ctx context.Context, input domain.EventInput, owner *domain.User) (*domain.Event, error) {
	e := &domain.Event{
		Title:       input.Title,
		Date:        input.Date.UTC(),
		Location:    input.Location,
		Category:    input.Category,
		Description: input.Description,
		UserID:      owner.ID,
		User:        owner,
	}
	if input.Latitude != nil && input.Longitude != nil {
		e.SetCoordinates(domain.Coordinates{Latitude: *input.Latitude, Longitude: *input.Longitude})
	} else if c := s.geocode(ctx, e.Location); c != nil {
		e.SetCoordinates(*c)
	}

	if err := s.repo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

func (s *eventService) Update(ctx context.Context, e *domain.Event, patch domain.EventPatch) (*domain.Event, error) {
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Date != nil {
		e.Date = patch.Date.UTC()
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}

	switch {
	case patch.Latitude != nil && patch.Longitude != nil:
		e.SetCoordinates(domain.Coordinates{Latitude: *patch.Latitude, Longitude: *patch.Longitude})
	case patch.Location != nil:
		if c := s.geocode(ctx, e.Location); c != nil {
			e.SetCoordinates(*c)
		}
	}

	if err := s.repo.Save(ctx, e); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return e, nil
}

func (s *eventService) Remove(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if err := s.repo.Delete(ctx, e.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}
	return e, nil
}

// Authorize returns the event when caller owns it. Admins are allowed without a
// read and get a nil event back.
func (s *eventService) Authorize(ctx context.Context, caller *domain.User, id int64) (*domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	if caller.IsAdmin() {
		return nil, nil
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return e, nil
}

// geocode resolves address to coordinates. Failures are logged and yield nil.
func (s *eventService) geocode(ctx context.Context, address string) *domain.Coordinates {
	if s.geocoder == nil || address == "" {
		return nil
	}
	c, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrGeocodeNoResults) {
			s.logger.DebugContext(ctx, "geocoder found no match", "address", address)
		} else {
			s.logger.WarnContext(ctx, "geocoding failed", "address", address, "err", err)
		}
		return nil
	}
	return c
}

func normalizeSort(sortBy domain.EventSort) domain.EventSort {
	if sortBy.Field == "" {
		sortBy.Field = domain.SortByDate
	}
	if sortBy.Order == "" {
		sortBy.Order = domain.OrderAsc
	}
	return sortBy
}
