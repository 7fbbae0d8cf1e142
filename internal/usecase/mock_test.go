//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-transfer/internal/domain"
	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/adapter"
	"telegram-group-transfer/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Adapters
// =============================

// ---- Mock GroupClient ----

type MockGroupClient struct {
	mu          sync.Mutex
	InviteCalls []model.Member // every Invite call in order

	ListMembersFunc func(ctx context.Context, group model.GroupRef, yield func(model.Member) error) error
	InviteFunc      func(ctx context.Context, group model.GroupRef, m model.Member) (adapter.InviteResult, error)
}

var _ adapter.GroupClient = (*MockGroupClient)(nil)

func (g *MockGroupClient) ListMembers(ctx context.Context, group model.GroupRef, yield func(model.Member) error) error {
	if g.ListMembersFunc != nil {
		return g.ListMembersFunc(ctx, group, yield)
	}
	return nil
}

func (g *MockGroupClient) Invite(ctx context.Context, group model.GroupRef, m model.Member) (adapter.InviteResult, error) {
	g.mu.Lock()
	g.InviteCalls = append(g.InviteCalls, m)
	g.mu.Unlock()
	if g.InviteFunc != nil {
		return g.InviteFunc(ctx, group, m)
	}
	return adapter.InviteResult{Status: adapter.InviteOK}, nil
}

func (g *MockGroupClient) InviteCallCount(userID int64) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, m := range g.InviteCalls {
		if m.UserID == userID {
			n++
		}
	}
	return n
}

// yieldMembers is a ListMembersFunc for a fixed member list.
func yieldMembers(members []model.Member) func(ctx context.Context, group model.GroupRef, yield func(model.Member) error) error {
	return func(_ context.Context, _ model.GroupRef, yield func(model.Member) error) error {
		for _, m := range members {
			if err := yield(m); err != nil {
				return err
			}
		}
		return nil
	}
}

// ---- Mock Messenger ----

type MockMessenger struct {
	mu   sync.Mutex
	Sent []adapter.SendMessageParams

	SendMessageFunc func(ctx context.Context, params adapter.SendMessageParams) error
}

var _ adapter.Messenger = (*MockMessenger)(nil)

func (m *MockMessenger) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, params)
	m.mu.Unlock()
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, params)
	}
	return nil
}

func (m *MockMessenger) SentTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]string, len(m.Sent))
	for i, p := range m.Sent {
		texts[i] = p.Text
	}
	return texts
}

// ---- Pacers ----

// noopPacer never waits. Keeps unit tests instant.
type noopPacer struct{}

func (noopPacer) Wait(_ context.Context) error { return nil }

// gatedPacer passes through freeCalls waits and then blocks until the wait
// context is cancelled. Lets tests park a job at a deterministic point.
type gatedPacer struct {
	mu        sync.Mutex
	calls     int
	freeCalls int
	blocked   chan struct{} // closed the first time a wait blocks
	blockOnce sync.Once
}

func newGatedPacer(freeCalls int) *gatedPacer {
	return &gatedPacer{freeCalls: freeCalls, blocked: make(chan struct{})}
}

func (p *gatedPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	p.calls++
	free := p.calls <= p.freeCalls
	p.mu.Unlock()
	if free {
		return nil
	}
	p.blockOnce.Do(func() { close(p.blocked) })
	<-ctx.Done()
	return ctx.Err()
}

// =============================
// Repositories
// =============================

// ---- Mock AdminRepo ----

type MockAdminRepo struct {
	mu     sync.Mutex
	admins map[int64]*model.Admin

	SaveFunc func(ctx context.Context, a *model.Admin) error
}

var _ repository.AdminRepository = (*MockAdminRepo)(nil)

func NewMockAdminRepo() *MockAdminRepo {
	return &MockAdminRepo{admins: make(map[int64]*model.Admin)}
}

func (r *MockAdminRepo) Save(ctx context.Context, a *model.Admin) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, a)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.admins[a.UserID] = &cp
	return nil
}

func (r *MockAdminRepo) Remove(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.admins, userID)
	return nil
}

func (r *MockAdminRepo) IsAdmin(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.admins[userID]
	return ok, nil
}

func (r *MockAdminRepo) List(_ context.Context) ([]*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// ---- Mock RunRepo ----

type MockRunRepo struct {
	mu       sync.Mutex
	Created  []*model.TransferRun
	Finished []*model.TransferRun
}

var _ repository.RunRepository = (*MockRunRepo)(nil)

func (r *MockRunRepo) Create(_ context.Context, run *model.TransferRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.Created = append(r.Created, &cp)
	return nil
}

func (r *MockRunRepo) Finish(_ context.Context, run *model.TransferRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.Finished = append(r.Finished, &cp)
	return nil
}

func (r *MockRunRepo) LastFinished() *model.TransferRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Finished) == 0 {
		return nil
	}
	return r.Finished[len(r.Finished)-1]
}

// ---- Mock SetupStateRepo ----

type MockStateRepo struct {
	mu     sync.Mutex
	states map[int64]*repository.SetupState
}

var _ repository.SetupStateRepository = (*MockStateRepo)(nil)

func NewMockStateRepo() *MockStateRepo {
	return &MockStateRepo{states: make(map[int64]*repository.SetupState)}
}

func (r *MockStateRepo) SetState(_ context.Context, tgID int64, state *repository.SetupState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *state
	r.states[tgID] = &cp
	return nil
}

func (r *MockStateRepo) GetState(_ context.Context, tgID int64) (*repository.SetupState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *MockStateRepo) ClearState(_ context.Context, tgID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, tgID)
	return nil
}

// =============================
// Misc helpers
// =============================

func testMembers(n int) []model.Member {
	members := make([]model.Member, n)
	for i := range members {
		members[i] = model.Member{UserID: int64(100 + i), AccessHash: int64(1000 + i)}
	}
	return members
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job to finish")
	}
}
