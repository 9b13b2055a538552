package service

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/leasedesk/leasedesk/backend/config"
	"github.com/leasedesk/leasedesk/backend/model"
)

// LOIStore is an in-memory store for LOIs
// In production, this should be replaced with a database
type LOIStore struct {
	lois    map[string]*model.LOI
	mu      sync.RWMutex
	maxLOIs int // Maximum LOIs to keep, 0 = unlimited
}

var (
	globalStore *LOIStore
	storeOnce   sync.Once
)

// InitLOIStore initializes the global LOI store with configuration
func InitLOIStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxLOIs := cfg.MaxLOIs
		if maxLOIs < 0 {
			maxLOIs = 0
		}
		globalStore = &LOIStore{
			lois:    make(map[string]*model.LOI),
			maxLOIs: maxLOIs,
		}
		slog.Info("LOI store initialized", "max_lois", maxLOIs)
	})
}

// GetLOIStore returns the global LOI store
func GetLOIStore() *LOIStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = &LOIStore{
			lois:    make(map[string]*model.LOI),
			maxLOIs: 100, // Default: keep 100 LOIs
		}
	}
	return globalStore
}

func (s *LOIStore) Save(loi *model.LOI) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loi.UpdatedAt = time.Now()
	s.lois[loi.ID] = loi

	// Cleanup if exceeds max
	s.cleanupIfNeeded()
}

func (s *LOIStore) Get(id string) *model.LOI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lois[id]
}

// GetByTenant returns the tenant's LOIs ordered newest first, so the
// dashboard list is stable across calls.
func (s *LOIStore) GetByTenant(tenant string) []*model.LOI {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.LOI
	for _, loi := range s.lois {
		if loi.Tenant == tenant {
			result = append(result, loi)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *LOIStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lois, id)
}

func (s *LOIStore) UpdateStatus(id, status string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loi, ok := s.lois[id]; ok {
		loi.Status = status
		loi.ErrorMsg = errMsg
		loi.UpdatedAt = time.Now()
	}
}

// SetParseTask records the extraction task id for an LOI. Records are
// shared pointers, so the write has to happen under the store lock.
func (s *LOIStore) SetParseTask(id, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loi, ok := s.lois[id]; ok {
		loi.ParseTaskID = taskID
		loi.UpdatedAt = time.Now()
	}
}

// UpdateClauses stores the raw extraction payload for an LOI and moves
// it to the reviewed state.
func (s *LOIStore) UpdateClauses(id string, clauses json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loi, ok := s.lois[id]; ok {
		loi.ClausesRaw = clauses
		loi.Status = model.LOIReviewed
		loi.UpdatedAt = time.Now()
	}
}

// ExpireStaleParses fails every LOI that has been in the parsing state
// longer than timeout. Returns the number of LOIs expired. Called from
// the scheduled cleanup job.
func (s *LOIStore) ExpireStaleParses(timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	cutoff := time.Now().Add(-timeout)
	for _, loi := range s.lois {
		if loi.Status == model.LOIParsing && loi.UpdatedAt.Before(cutoff) {
			loi.Status = model.LOIFailed
			loi.ErrorMsg = "Clause extraction timed out"
			loi.UpdatedAt = time.Now()
			expired++
			slog.Warn("expired stale parse", "loi_id", loi.ID)
		}
	}
	return expired
}

// cleanupIfNeeded removes oldest LOIs if store exceeds maxLOIs
// Must be called with lock held
func (s *LOIStore) cleanupIfNeeded() {
	if s.maxLOIs <= 0 {
		return // Unlimited
	}

	if len(s.lois) <= s.maxLOIs {
		return
	}

	// Sort LOIs by creation time
	lois := make([]*model.LOI, 0, len(s.lois))
	for _, loi := range s.lois {
		lois = append(lois, loi)
	}
	sort.Slice(lois, func(i, j int) bool {
		return lois[i].CreatedAt.Before(lois[j].CreatedAt)
	})

	// Remove oldest LOIs
	removeCount := len(lois) - s.maxLOIs
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old LOI",
			"loi_id", lois[i].ID,
			"created_at", lois[i].CreatedAt,
		)
		delete(s.lois, lois[i].ID)
	}
}

// Count returns the number of LOIs in the store
func (s *LOIStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lois)
}
