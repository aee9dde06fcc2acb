// Package pipeline manages organization-scoped ordered configuration:
// pipeline stages and lead sources. All operations validate the tenant
// context first and scope every store access by the caller's organization.
package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

// Service implements CRUD plus atomic reorder over lead stages and lead
// source configs.
type Service struct {
	stages  StageStore
	sources SourceStore
	clients ClientRefStore

	// Serializes the read-max-then-insert sequence per organization so two
	// concurrent creates cannot compute the same next order.
	mu       sync.Mutex
	orgLocks map[uuid.UUID]*sync.Mutex
}

// NewService creates a pipeline configuration service.
func NewService(stages StageStore, sources SourceStore, clients ClientRefStore) *Service {
	return &Service{
		stages:   stages,
		sources:  sources,
		clients:  clients,
		orgLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Service) orgLock(orgID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.orgLocks[orgID]
	if !ok {
		lock = &sync.Mutex{}
		s.orgLocks[orgID] = lock
	}
	return lock
}
