package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// memStageStore is an in-memory StageStore used to verify service behavior,
// including that operations from different organizations never
// cross-contaminate.
type memStageStore struct {
	mu     sync.Mutex
	stages map[uuid.UUID]domain.LeadStage
}

func newMemStageStore() *memStageStore {
	return &memStageStore{stages: make(map[uuid.UUID]domain.LeadStage)}
}

func (s *memStageStore) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]domain.LeadStage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LeadStage
	for _, st := range s.stages {
		if st.OrganizationID == orgID {
			out = append(out, st)
		}
	}
	// sort by sort order, then name, matching the SQL ordering
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			if a.SortOrder > b.SortOrder || (a.SortOrder == b.SortOrder && a.Name > b.Name) {
				out[j-1], out[j] = b, a
			}
		}
	}
	return out, nil
}

func (s *memStageStore) GetByID(_ context.Context, id, orgID uuid.UUID) (*domain.LeadStage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stages[id]
	if !ok || st.OrganizationID != orgID {
		return nil, domain.NewEntityNotFound("lead stage")
	}
	copy := st
	return &copy, nil
}

func (s *memStageStore) GetByName(_ context.Context, name string, orgID uuid.UUID) (*domain.LeadStage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stages {
		if st.OrganizationID == orgID && st.Name == name {
			copy := st
			return &copy, nil
		}
	}
	return nil, domain.NewEntityNotFound("lead stage")
}

func (s *memStageStore) MaxSortOrder(_ context.Context, orgID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, st := range s.stages {
		if st.OrganizationID == orgID && st.SortOrder > max {
			max = st.SortOrder
		}
	}
	return max, nil
}

func (s *memStageStore) Create(_ context.Context, stage *domain.LeadStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stages {
		if st.OrganizationID == stage.OrganizationID && st.Name == stage.Name {
			return domain.NewDuplicateName(stage.Name)
		}
	}
	s.stages[stage.ID] = *stage
	return nil
}

func (s *memStageStore) Update(_ context.Context, stage *domain.LeadStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.stages[stage.ID]
	if !ok || existing.OrganizationID != stage.OrganizationID {
		return domain.NewEntityNotFound("lead stage")
	}
	s.stages[stage.ID] = *stage
	return nil
}

func (s *memStageStore) Delete(_ context.Context, id, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stages[id]
	if !ok || st.OrganizationID != orgID {
		return domain.NewEntityNotFound("lead stage")
	}
	delete(s.stages, id)
	return nil
}

func (s *memStageStore) Reorder(_ context.Context, orgID uuid.UUID, positions []domain.StagePosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// All-or-nothing: verify ownership of the whole batch before writing.
	for _, p := range positions {
		st, ok := s.stages[p.ID]
		if !ok {
			return domain.NewEntityNotFound("lead stage")
		}
		if st.OrganizationID != orgID {
			return domain.NewAccessDenied()
		}
	}
	for _, p := range positions {
		st := s.stages[p.ID]
		st.SortOrder = p.SortOrder
		s.stages[p.ID] = st
	}
	return nil
}

// memSourceStore is an in-memory SourceStore.
type memSourceStore struct {
	mu      sync.Mutex
	sources map[uuid.UUID]domain.LeadSourceConfig
}

func newMemSourceStore() *memSourceStore {
	return &memSourceStore{sources: make(map[uuid.UUID]domain.LeadSourceConfig)}
}

func (s *memSourceStore) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]domain.LeadSourceConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LeadSourceConfig
	for _, src := range s.sources {
		if src.OrganizationID == orgID {
			out = append(out, src)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name > out[j].Name; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

func (s *memSourceStore) GetByID(_ context.Context, id, orgID uuid.UUID) (*domain.LeadSourceConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.sources[id]
	if !ok || src.OrganizationID != orgID {
		return nil, domain.NewEntityNotFound("lead source")
	}
	copy := src
	return &copy, nil
}

func (s *memSourceStore) GetByName(_ context.Context, name string, orgID uuid.UUID) (*domain.LeadSourceConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.OrganizationID == orgID && src.Name == name {
			copy := src
			return &copy, nil
		}
	}
	return nil, domain.NewEntityNotFound("lead source")
}

func (s *memSourceStore) Create(_ context.Context, source *domain.LeadSourceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.OrganizationID == source.OrganizationID && src.Name == source.Name {
			return domain.NewDuplicateName(source.Name)
		}
	}
	s.sources[source.ID] = *source
	return nil
}

func (s *memSourceStore) Update(_ context.Context, source *domain.LeadSourceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sources[source.ID]
	if !ok || existing.OrganizationID != source.OrganizationID {
		return domain.NewEntityNotFound("lead source")
	}
	s.sources[source.ID] = *source
	return nil
}

func (s *memSourceStore) Delete(_ context.Context, id, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.sources[id]
	if !ok || src.OrganizationID != orgID {
		return domain.NewEntityNotFound("lead source")
	}
	delete(s.sources, id)
	return nil
}

// memClientRefStore counts stage references per organization.
type memClientRefStore struct {
	mu sync.Mutex
	// organization id -> stage name -> count
	refs map[uuid.UUID]map[string]int
}

func newMemClientRefStore() *memClientRefStore {
	return &memClientRefStore{refs: make(map[uuid.UUID]map[string]int)}
}

func (s *memClientRefStore) CountByStageName(_ context.Context, orgID uuid.UUID, stageName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs[orgID][stageName], nil
}

func (s *memClientRefStore) set(orgID uuid.UUID, stageName string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs[orgID] == nil {
		s.refs[orgID] = make(map[string]int)
	}
	s.refs[orgID][stageName] = count
}
