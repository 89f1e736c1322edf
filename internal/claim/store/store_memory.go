package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"sharebite/internal/claim/models"
	id "sharebite/pkg/domain"
)

type pairKey struct {
	donation id.DonationID
	claimant id.UserID
}

// InMemoryStore keeps claims in a map with a secondary index enforcing the
// (donation, claimant) uniqueness the postgres schema gets from a constraint.
type InMemoryStore struct {
	mu     sync.RWMutex
	claims map[id.ClaimID]models.Claim
	pairs  map[pairKey]id.ClaimID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		claims: make(map[id.ClaimID]models.Claim),
		pairs:  make(map[pairKey]id.ClaimID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{donation: claim.DonationID, claimant: claim.Claimant}
	if _, exists := s.pairs[key]; exists {
		return ErrDuplicateClaim
	}
	s.claims[claim.ID] = *claim
	s.pairs[key] = claim.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, claimID id.ClaimID) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[claimID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter) ([]*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Claim
	for _, c := range s.claims {
		if !filter.Claimant.IsZero() && c.Claimant != filter.Claimant {
			continue
		}
		if !filter.Donation.IsZero() && c.DonationID != filter.Donation {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		copied := c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ClaimedAt.After(out[j].ClaimedAt)
	})
	return out, nil
}

func (s *InMemoryStore) CompareAndSetStatus(_ context.Context, claimID id.ClaimID, expected id.ClaimStatus, patch StatusPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[claimID]
	if !ok {
		return false, ErrNotFound
	}
	if c.Status != expected {
		return false, nil
	}
	c.Status = patch.Status
	if patch.ConfirmedAt != nil {
		c.ConfirmedAt = patch.ConfirmedAt
	}
	if patch.CollectedAt != nil {
		c.CollectedAt = patch.CollectedAt
	}
	if patch.Feedback != nil {
		c.Feedback = patch.Feedback
	}
	s.claims[claimID] = c
	return true, nil
}

func (s *InMemoryStore) ListPendingExpired(_ context.Context, now time.Time) ([]*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Claim
	for _, c := range s.claims {
		if c.Status == id.ClaimPending && now.After(c.ExpiresAt) {
			copied := c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, claimID id.ClaimID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[claimID]
	if !ok {
		return ErrNotFound
	}
	delete(s.claims, claimID)
	delete(s.pairs, pairKey{donation: c.DonationID, claimant: c.Claimant})
	return nil
}
