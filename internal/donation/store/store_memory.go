package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"sharebite/internal/donation/models"
	id "sharebite/pkg/domain"
)

// InMemoryStore keeps donations in a map guarded by a mutex. The lock makes
// CompareAndSetStatus atomic, mirroring the conditional UPDATE the postgres
// store relies on.
type InMemoryStore struct {
	mu        sync.RWMutex
	donations map[id.DonationID]models.Donation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{donations: make(map[id.DonationID]models.Donation)}
}

func (s *InMemoryStore) Create(_ context.Context, donation *models.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations[donation.ID] = *donation
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, donationID id.DonationID) (*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[donationID]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter) ([]*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Donation
	for _, d := range s.donations {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		if filter.City != "" && d.Location.City != filter.City {
			continue
		}
		if !filter.Donor.IsZero() && d.Donor != filter.Donor {
			continue
		}
		copied := d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) CompareAndSetStatus(_ context.Context, donationID id.DonationID, expected id.DonationStatus, patch StatusPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok {
		return false, ErrNotFound
	}
	if d.Status != expected {
		return false, nil
	}
	d.Status = patch.Status
	d.ClaimedBy = patch.ClaimedBy
	d.ClaimedAt = patch.ClaimedAt
	d.OTP = patch.OTP
	d.CollectedAt = patch.CollectedAt
	d.UpdatedAt = time.Now()
	s.donations[donationID] = d
	return true, nil
}

func (s *InMemoryStore) UpdateDetails(_ context.Context, donationID id.DonationID, patch DetailsPatch, estimatedValue float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok {
		return ErrNotFound
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Quantity != nil {
		d.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		d.Unit = *patch.Unit
	}
	if patch.ExpiryDate != nil {
		d.ExpiryDate = *patch.ExpiryDate
	}
	if patch.PickupWindow != nil {
		d.PickupWindow = *patch.PickupWindow
	}
	d.EstimatedValue = estimatedValue
	d.UpdatedAt = time.Now()
	s.donations[donationID] = d
	return nil
}

func (s *InMemoryStore) ListExpiredAvailable(_ context.Context, now time.Time) ([]*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Donation
	for _, d := range s.donations {
		if d.Status == id.DonationAvailable && now.After(d.ExpiryDate) {
			copied := d
			out = append(out, &copied)
		}
	}
	return out, nil
}
