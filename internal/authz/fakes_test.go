package authz

import (
	"context"
	"errors"
	"sync"
	"time"

	"feedreader/internal/domain"
	"feedreader/internal/limiter"
	"feedreader/internal/telemetry"
)

type fakeUsers struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	getErr    error
	updateErr error
	gets      int
	updates   []int64
	updated   chan int64
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*domain.User), updated: make(chan int64, 16)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateLastSeenAt(_ context.Context, id int64, _ time.Time) error {
	f.mu.Lock()
	f.updates = append(f.updates, id)
	err := f.updateErr
	f.mu.Unlock()
	f.updated <- id
	return err
}

func (f *fakeUsers) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func (f *fakeUsers) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

type fakeResources struct {
	mu     sync.Mutex
	counts map[domain.Resource]int
	err    error
	calls  int
}

func (f *fakeResources) CountForUser(_ context.Context, _ int64, r domain.Resource) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[r], nil
}

func (f *fakeResources) CreateSource(context.Context, int64, string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResources) CreateCategory(context.Context, int64, string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResources) CreatePublicFeed(context.Context, int64, string) (int64, error) {
	return 0, errors.New("not implemented")
}

type fakeSettings struct {
	settings domain.GlobalSettings
	err      error
	calls    int
}

func (f *fakeSettings) Get(context.Context) (domain.GlobalSettings, error) {
	f.calls++
	return f.settings, f.err
}

type countingQuotas struct {
	calls int
}

func (c *countingQuotas) QuotaForPlan(ctx context.Context, plan domain.UserPlan) (domain.QuotaSnapshot, error) {
	c.calls++
	return PlanCatalog{}.QuotaForPlan(ctx, plan)
}

type failingStore struct {
	err error
}

func (s failingStore) Consume(context.Context, string, int) (limiter.Result, error) {
	return limiter.Result{}, s.err
}

type captured struct {
	err error
	ev  telemetry.Event
}

type fakeReporter struct {
	mu     sync.Mutex
	events []captured
}

func (r *fakeReporter) CaptureException(_ context.Context, err error, ev telemetry.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, captured{err: err, ev: ev})
	return nil
}

func (r *fakeReporter) snapshot() []captured {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]captured(nil), r.events...)
}
