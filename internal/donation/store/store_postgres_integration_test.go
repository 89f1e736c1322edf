//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sharebite/internal/donation/models"
	"sharebite/internal/donation/store"
	id "sharebite/pkg/domain"
	"sharebite/pkg/testutil/containers"
)

type PostgresDonationSuite struct {
	suite.Suite

	pg    *containers.PostgresContainer
	store *store.PostgresStore
}

func TestPostgresDonationSuite(t *testing.T) {
	suite.Run(t, new(PostgresDonationSuite))
}

func (s *PostgresDonationSuite) SetupSuite() {
	s.pg = containers.GetPostgres(s.T())
	s.store = store.NewPostgres(s.pg.DB)
}

func (s *PostgresDonationSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background()))
}

func (s *PostgresDonationSuite) seed() *models.Donation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := &models.Donation{
		ID:          id.NewDonationID(),
		Donor:       id.NewUserID(),
		Category:    id.CategoryMedicine,
		Description: "sealed bandages",
		Quantity:    3,
		Unit:        "boxes",
		ExpiryDate:  now.Add(72 * time.Hour),
		PickupWindow: models.PickupWindow{
			Start: now.Add(time.Hour),
			End:   now.Add(5 * time.Hour),
		},
		Location:       models.Location{Address: "4 Clinic Way", City: "Springfield", Lat: 39.78, Lng: -89.65},
		Status:         id.DonationAvailable,
		EstimatedValue: models.EstimatedValue(id.CategoryMedicine, 3),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Require().NoError(s.store.Create(context.Background(), d))
	return d
}

func (s *PostgresDonationSuite) TestRoundTrip() {
	d := s.seed()

	got, err := s.store.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(d.Donor, got.Donor)
	s.Equal(id.DonationAvailable, got.Status)
	s.Nil(got.ClaimedBy)
	s.Empty(got.OTP)
	s.InDelta(300.0, got.EstimatedValue, 0.001)
	s.Equal("Springfield", got.Location.City)
}

func (s *PostgresDonationSuite) TestConcurrentCompareAndSetSingleWinner() {
	d := s.seed()

	const racers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimant := id.NewUserID()
			now := time.Now().UTC()
			won, err := s.store.CompareAndSetStatus(context.Background(), d.ID, id.DonationAvailable, store.StatusPatch{
				Status:    id.DonationClaimed,
				ClaimedBy: &claimant,
				ClaimedAt: &now,
				OTP:       "1234",
			})
			s.NoError(err)
			if won {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
}

func (s *PostgresDonationSuite) TestReleaseClearsLifecycleColumns() {
	d := s.seed()
	claimant := id.NewUserID()
	now := time.Now().UTC()

	won, err := s.store.CompareAndSetStatus(context.Background(), d.ID, id.DonationAvailable, store.StatusPatch{
		Status:    id.DonationClaimed,
		ClaimedBy: &claimant,
		ClaimedAt: &now,
		OTP:       "9876",
	})
	s.Require().NoError(err)
	s.Require().True(won)

	won, err = s.store.CompareAndSetStatus(context.Background(), d.ID, id.DonationClaimed, store.StatusPatch{
		Status: id.DonationAvailable,
	})
	s.Require().NoError(err)
	s.Require().True(won)

	got, err := s.store.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationAvailable, got.Status)
	s.Nil(got.ClaimedBy)
	s.Nil(got.ClaimedAt)
	s.Empty(got.OTP)
}

func (s *PostgresDonationSuite) TestUpdateDetailsIsPartial() {
	d := s.seed()

	quantity := 7.0
	err := s.store.UpdateDetails(context.Background(), d.ID, store.DetailsPatch{Quantity: &quantity},
		models.EstimatedValue(d.Category, quantity))
	s.Require().NoError(err)

	got, err := s.store.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.InDelta(7.0, got.Quantity, 0.001)
	s.Equal(d.Description, got.Description)
	s.InDelta(700.0, got.EstimatedValue, 0.001)
}

func (s *PostgresDonationSuite) TestListExpiredAvailable() {
	fresh := s.seed()
	_ = fresh

	stale := s.seed()
	past := time.Now().UTC().Add(-time.Hour)
	err := s.store.UpdateDetails(context.Background(), stale.ID, store.DetailsPatch{ExpiryDate: &past}, stale.EstimatedValue)
	s.Require().NoError(err)

	due, err := s.store.ListExpiredAvailable(context.Background(), time.Now().UTC())
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(stale.ID, due[0].ID)
}

func (s *PostgresDonationSuite) TestListFilters() {
	d := s.seed()

	byCity, err := s.store.List(context.Background(), store.ListFilter{City: "Springfield", Status: id.DonationAvailable})
	s.Require().NoError(err)
	s.Len(byCity, 1)

	byDonor, err := s.store.List(context.Background(), store.ListFilter{Donor: d.Donor})
	s.Require().NoError(err)
	s.Len(byDonor, 1)

	none, err := s.store.List(context.Background(), store.ListFilter{City: "Nowhere"})
	s.Require().NoError(err)
	s.Empty(none)
}
