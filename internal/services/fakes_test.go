package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"eventfinder/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[int64]*domain.User
	byEmail   map[string]*domain.User
	nextID    int64
	getErr    error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeEmailService records welcome messages.
type fakeEmailService struct {
	sent []*domain.WelcomeMessageEmailData
	err  error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

// fakeEventRepo is an in-memory domain.EventRepository.
type fakeEventRepo struct {
	events    map[int64]*domain.Event
	nextID    int64
	saves     int
	saveErr   error
	deleteErr error
	lastSort  *domain.EventSort
	lastPage  *domain.PaginationParams
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{events: make(map[int64]*domain.Event)}
	for _, e := range events {
		f.events[e.ID] = e
		if e.ID > f.nextID {
			f.nextID = e.ID
		}
	}
	return f
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) FindMany(ctx context.Context, filter domain.EventFilter, sortBy *domain.EventSort, page *domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastSort = sortBy
	f.lastPage = page

	var matched []*domain.Event
	for _, e := range f.events {
		if filter.Day != nil && e.Date.Format("2006-01-02") != filter.Day.Format("2006-01-02") {
			continue
		}
		if filter.DateEquals != nil && !e.Date.Equal(*filter.DateEquals) {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.TitleSearch != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.TitleSearch)) {
			continue
		}
		if filter.OwnerID != 0 && e.UserID != filter.OwnerID {
			continue
		}
		if filter.ExcludeID != 0 && e.ID == filter.ExcludeID {
			continue
		}
		if filter.HasCoordinates && !e.HasCoordinates() {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		if sortBy != nil {
			a, b := matched[i], matched[j]
			var less, equal bool
			switch sortBy.Field {
			case domain.SortByTitle:
				less, equal = a.Title < b.Title, a.Title == b.Title
			default:
				less, equal = a.Date.Before(b.Date), a.Date.Equal(b.Date)
			}
			if !equal {
				if sortBy.Order == domain.OrderDesc {
					return !less
				}
				return less
			}
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if page != nil {
		matched = domain.Paginate(matched, *page)
	}
	return matched, total, nil
}

func (f *fakeEventRepo) Save(ctx context.Context, e *domain.Event) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if e.ID == 0 {
		f.nextID++
		e.ID = f.nextID
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeGeocoder counts calls and returns a fixed result.
type fakeGeocoder struct {
	calls  int
	result *domain.Coordinates
	err    error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
