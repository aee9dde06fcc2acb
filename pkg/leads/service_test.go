package leads

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

type memClientStore struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*domain.Client
}

func newMemClientStore() *memClientStore {
	return &memClientStore{clients: make(map[uuid.UUID]*domain.Client)}
}

func (s *memClientStore) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Client
	for _, c := range s.clients {
		if c.OrganizationID == orgID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memClientStore) GetByID(_ context.Context, id, orgID uuid.UUID) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok || c.OrganizationID != orgID {
		return nil, domain.NewEntityNotFound("client")
	}
	cp := *c
	return &cp, nil
}

func (s *memClientStore) Create(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *client
	s.clients[client.ID] = &cp
	return nil
}

func (s *memClientStore) CountByStageName(_ context.Context, orgID uuid.UUID, stageName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.clients {
		if c.OrganizationID == orgID && c.LeadStage == stageName {
			n++
		}
	}
	return n, nil
}

func (s *memClientStore) ReassignStage(_ context.Context, orgID uuid.UUID, fromStage, toStage string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.clients {
		if c.OrganizationID == orgID && c.LeadStage == fromStage {
			c.LeadStage = toStage
			n++
		}
	}
	return n, nil
}

type memStageFinder struct {
	stages map[uuid.UUID][]string
}

func (f *memStageFinder) GetByName(_ context.Context, name string, orgID uuid.UUID) (*domain.LeadStage, error) {
	for _, n := range f.stages[orgID] {
		if n == name {
			return &domain.LeadStage{ID: uuid.New(), OrganizationID: orgID, Name: n}, nil
		}
	}
	return nil, domain.NewEntityNotFound("lead stage")
}

func testContext() *domain.TenantContext {
	return &domain.TenantContext{
		OrganizationID:   uuid.New(),
		OrganizationRole: domain.RoleMember,
		Permissions:      []string{domain.PermLeadsCreate, domain.PermLeadsManage},
	}
}

func newTestService(orgID uuid.UUID, stageNames ...string) (*Service, *memClientStore) {
	clients := newMemClientStore()
	stages := &memStageFinder{stages: map[uuid.UUID][]string{orgID: stageNames}}
	return NewService(clients, stages), clients
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	tc := testContext()
	svc, _ := newTestService(tc.OrganizationID, "new", "qualified")

	created, err := svc.Create(ctx, tc, CreateClientInput{Name: "Jordan Lee", LeadStage: "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if created.OrganizationID != tc.OrganizationID {
		t.Error("client not scoped to the caller's organization")
	}
	if created.LeadStage != "new" {
		t.Errorf("stage = %q, want new", created.LeadStage)
	}
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	tc := testContext()
	svc, _ := newTestService(tc.OrganizationID, "new")

	tests := []struct {
		name  string
		input CreateClientInput
	}{
		{"missing name", CreateClientInput{LeadStage: "new"}},
		{"missing stage", CreateClientInput{Name: "Jordan Lee"}},
		{"unknown stage", CreateClientInput{Name: "Jordan Lee", LeadStage: "ghost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc, tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("error = %v, want validation failure", err)
			}
		})
	}
}

func TestCreate_ForeignOrganizationReferenceRejected(t *testing.T) {
	ctx := context.Background()
	tc := testContext()
	svc, clients := newTestService(tc.OrganizationID, "new")

	_, err := svc.Create(ctx, tc, CreateClientInput{
		Name:           "Jordan Lee",
		LeadStage:      "new",
		OrganizationID: uuid.New(),
	})
	if !errors.Is(err, domain.ErrCrossTenant) {
		t.Fatalf("error = %v, want cross tenant", err)
	}
	if len(clients.clients) != 0 {
		t.Error("nothing should be created on a cross-tenant reference")
	}

	// Explicitly naming the caller's own organization is allowed.
	if _, err := svc.Create(ctx, tc, CreateClientInput{
		Name:           "Jordan Lee",
		LeadStage:      "new",
		OrganizationID: tc.OrganizationID,
	}); err != nil {
		t.Fatalf("same-org reference failed: %v", err)
	}
}

func TestCreate_RequiresContext(t *testing.T) {
	svc, _ := newTestService(uuid.New(), "new")

	_, err := svc.Create(context.Background(), nil, CreateClientInput{Name: "x", LeadStage: "new"})
	if !errors.Is(err, domain.ErrMissingContext) {
		t.Fatalf("error = %v, want missing context", err)
	}
}

func TestList_ScopedToOrganization(t *testing.T) {
	ctx := context.Background()
	tc := testContext()
	svc, clients := newTestService(tc.OrganizationID, "new")

	if _, err := svc.Create(ctx, tc, CreateClientInput{Name: "Jordan Lee", LeadStage: "new"}); err != nil {
		t.Fatal(err)
	}
	// A record in another organization is invisible.
	clients.Create(ctx, &domain.Client{ID: uuid.New(), OrganizationID: uuid.New(), Name: "Stranger", LeadStage: "new"})

	got, err := svc.List(ctx, tc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Jordan Lee" {
		t.Errorf("list = %+v, want only the caller's record", got)
	}
}

func TestReassignStage(t *testing.T) {
	ctx := context.Background()
	tc := testContext()
	svc, clients := newTestService(tc.OrganizationID, "new", "qualified")

	for i := 0; i < 3; i++ {
		clients.Create(ctx, &domain.Client{ID: uuid.New(), OrganizationID: tc.OrganizationID, Name: "c", LeadStage: "new"})
	}
	// A foreign record on the same stage name stays put.
	foreign := &domain.Client{ID: uuid.New(), OrganizationID: uuid.New(), Name: "f", LeadStage: "new"}
	clients.Create(ctx, foreign)

	moved, err := svc.ReassignStage(ctx, tc, "new", "qualified")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved != 3 {
		t.Errorf("moved = %d, want 3", moved)
	}
	if clients.clients[foreign.ID].LeadStage != "new" {
		t.Error("foreign organization's record was moved")
	}
}

func TestReassignStage_Validation(t *testing.T) {
	ctx := context.Background()
	tc := testContext()
	svc, _ := newTestService(tc.OrganizationID, "new", "qualified")

	tests := []struct {
		name     string
		from, to string
	}{
		{"empty source", "", "qualified"},
		{"empty target", "new", ""},
		{"same stage", "new", "new"},
		{"unknown target", "new", "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReassignStage(ctx, tc, tt.from, tt.to)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("error = %v, want validation failure", err)
			}
		})
	}
}
