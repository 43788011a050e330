package controllers

import (
	"context"
	"io"
	"log/slog"

	"eventfinder/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	result       *domain.AuthResult
	err          error
	lastEmail    string
	lastPassword string
}

func (f *fakeAuthService) Register(_ context.Context, email, password string) (*domain.AuthResult, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.result, f.err
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (*domain.AuthResult, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.result, f.err
}

func (f *fakeAuthService) Authenticate(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUnauthorized
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	page         *domain.Page[*domain.Event]
	event        *domain.Event
	err          error
	findOneCalls int
	lastQuery    domain.ListEventsQuery
	lastCaller   int64
	lastID       int64
	lastSimilar  domain.SimilarQuery
	lastInput    domain.EventInput
	lastOwner    *domain.User
	lastPatch    domain.EventPatch
	lastTarget   *domain.Event
}

func (f *fakeEventService) FindAll(_ context.Context, q domain.ListEventsQuery, callerID int64) (*domain.Page[*domain.Event], error) {
	f.lastQuery, f.lastCaller = q, callerID
	return f.page, f.err
}

func (f *fakeEventService) FindOne(_ context.Context, id int64) (*domain.Event, error) {
	f.findOneCalls++
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) FindSimilar(_ context.Context, id int64, q domain.SimilarQuery) (*domain.Page[*domain.Event], error) {
	f.lastID, f.lastSimilar = id, q
	return f.page, f.err
}

func (f *fakeEventService) Create(_ context.Context, input domain.EventInput, owner *domain.User) (*domain.Event, error) {
	f.lastInput, f.lastOwner = input, owner
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: 1, Title: input.Title, Category: input.Category, UserID: owner.ID}, nil
}

func (f *fakeEventService) Update(_ context.Context, e *domain.Event, patch domain.EventPatch) (*domain.Event, error) {
	f.lastTarget, f.lastPatch = e, patch
	if f.err != nil {
		return nil, f.err
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	return e, nil
}

func (f *fakeEventService) Remove(_ context.Context, e *domain.Event) (*domain.Event, error) {
	f.lastTarget = e
	return e, f.err
}

func (f *fakeEventService) Authorize(_ context.Context, _ *domain.User, _ int64) (*domain.Event, error) {
	return f.event, f.err
}
