package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sharebite/internal/audit"
	claimmodels "sharebite/internal/claim/models"
	claimstore "sharebite/internal/claim/store"
	donationmodels "sharebite/internal/donation/models"
	donationstore "sharebite/internal/donation/store"
	"sharebite/internal/events"
	"sharebite/internal/platform/logger"
	usermodels "sharebite/internal/user/models"
	userstore "sharebite/internal/user/store"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
	"sharebite/pkg/requestcontext"
)

// seqGenerator hands out a fixed sequence of codes so tests can assert on
// exact values. Safe for concurrent use.
type seqGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *seqGenerator) Code() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer func() { g.next++ }()
	if g.next >= len(g.codes) {
		return fmt.Sprintf("%04d", g.next%10000), nil
	}
	return g.codes[g.next], nil
}

type EngineSuite struct {
	suite.Suite

	donations  donationstore.Store
	claims     claimstore.Store
	users      *userstore.InMemoryStore
	auditStore *audit.InMemoryStore
	engine     *Engine

	donor    id.UserID
	claimant id.UserID
	base     time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.donations = donationstore.NewInMemoryStore()
	s.claims = claimstore.NewInMemoryStore()
	s.users = userstore.NewInMemoryStore()
	s.auditStore = audit.NewInMemoryStore()
	log := logger.New()

	s.engine = New(
		s.donations,
		s.claims,
		s.users,
		&seqGenerator{codes: []string{"1234", "5678", "9012"}},
		events.NewInMemoryBroker(nil),
		audit.NewPublisher(s.auditStore, log),
		nil,
		log,
		15*time.Minute,
	)

	s.donor = id.NewUserID()
	s.claimant = id.NewUserID()
	s.base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.users.Save(context.Background(), &usermodels.User{
		ID:             s.donor,
		Name:           "Dana Donor",
		City:           "Springfield",
		IntegrityScore: 5.0,
	}))
}

// ctxAt pins the request clock, the way the request middleware does.
func (s *EngineSuite) ctxAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *EngineSuite) seedDonation() *donationmodels.Donation {
	d := &donationmodels.Donation{
		ID:          id.NewDonationID(),
		Donor:       s.donor,
		Category:    id.CategoryFood,
		Description: "bread",
		Quantity:    4,
		Unit:        "loaves",
		ExpiryDate:  s.base.Add(24 * time.Hour),
		PickupWindow: donationmodels.PickupWindow{
			Start: s.base.Add(time.Hour),
			End:   s.base.Add(6 * time.Hour),
		},
		Location:       donationmodels.Location{Address: "1 Main St", City: "Springfield"},
		Status:         id.DonationAvailable,
		EstimatedValue: donationmodels.EstimatedValue(id.CategoryFood, 4),
		CreatedAt:      s.base,
		UpdatedAt:      s.base,
	}
	s.Require().NoError(s.donations.Create(context.Background(), d))
	return d
}

func (s *EngineSuite) TestCreateClaimReservesDonation() {
	d := s.seedDonation()

	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "weekly shelter run")
	s.Require().NoError(err)

	s.Equal("1234", res.OTP)
	s.Equal(15, res.ExpiresInMinutes)
	s.Equal(id.ClaimPending, res.Claim.Status)
	s.Equal(s.base.Add(15*time.Minute), res.Claim.ExpiresAt)

	got, err := s.donations.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationClaimed, got.Status)
	s.Require().NotNil(got.ClaimedBy)
	s.Equal(s.claimant, *got.ClaimedBy)
	s.Equal("1234", got.OTP)
}

func (s *EngineSuite) TestCreateClaimRejectsOwnDonation() {
	d := s.seedDonation()

	_, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.donor, "")
	s.Equal(dErrors.CodeForbidden, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestCreateClaimRejectsUnavailableDonation() {
	d := s.seedDonation()
	_, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	_, err = s.engine.CreateClaim(s.ctxAt(s.base), d.ID, id.NewUserID(), "")
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestCreateClaimRejectsExpiredDonation() {
	d := s.seedDonation()

	late := d.ExpiryDate.Add(time.Minute)
	_, err := s.engine.CreateClaim(s.ctxAt(late), d.ID, s.claimant, "")
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestCreateClaimRejectsUnknownDonation() {
	_, err := s.engine.CreateClaim(s.ctxAt(s.base), id.NewDonationID(), s.claimant, "")
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestSameClaimantCannotRetrySameDonation() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)
	s.Require().NoError(s.engine.CancelClaim(s.ctxAt(s.base), res.Claim.ID, s.claimant))

	// The cancelled claim stays on record; the pair is spent.
	_, err = s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Equal(dErrors.CodeDuplicateClaim, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestConcurrentClaimsExactlyOneWinner() {
	d := s.seedDonation()

	const racers = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, id.NewUserID(), "")
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)

	// Losers' claim rows were compensated away; only the winner's remains.
	remaining, err := s.claims.List(context.Background(), claimstore.ListFilter{Donation: d.ID})
	s.Require().NoError(err)
	s.Len(remaining, 1)

	got, err := s.donations.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationClaimed, got.Status)
	s.Require().NotNil(got.ClaimedBy)
	s.Equal(remaining[0].Claimant, *got.ClaimedBy)
}

func (s *EngineSuite) TestConfirmPickupRequiresDonor() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	_, err = s.engine.ConfirmPickup(s.ctxAt(s.base), res.Claim.ID, s.claimant, res.OTP)
	s.Equal(dErrors.CodeForbidden, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestWrongCodeIsRetryable() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	at := s.base.Add(5 * time.Minute)
	_, err = s.engine.ConfirmPickup(s.ctxAt(at), res.Claim.ID, s.donor, "0000")
	s.Equal(dErrors.CodeInvalidCode, dErrors.CodeOf(err))

	// Failed attempt leaves an audit record and the claim pending.
	trail, err := s.auditStore.ListByActor(context.Background(), s.donor)
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal(audit.ActionConfirmFailed, trail[0].Action)

	c, err := s.engine.ConfirmPickup(s.ctxAt(at), res.Claim.ID, s.donor, res.OTP)
	s.Require().NoError(err)
	s.Equal(id.ClaimConfirmed, c.Status)
	s.Require().NotNil(c.ConfirmedAt)
	s.True(c.ConfirmedAt.Equal(at))
}

func (s *EngineSuite) TestConfirmAfterDeadlineExpiresClaim() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	// A matching code loses to the closed window.
	late := s.base.Add(16 * time.Minute)
	_, err = s.engine.ConfirmPickup(s.ctxAt(late), res.Claim.ID, s.donor, res.OTP)
	s.Equal(dErrors.CodeExpired, dErrors.CodeOf(err))

	c, err := s.claims.FindByID(context.Background(), res.Claim.ID)
	s.Require().NoError(err)
	s.Equal(id.ClaimExpired, c.Status)

	got, err := s.donations.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationAvailable, got.Status)
	s.Nil(got.ClaimedBy)
	s.Empty(got.OTP)
}

func (s *EngineSuite) TestMarkCollectedCompletesHandoffAndRatesDonor() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)
	_, err = s.engine.ConfirmPickup(s.ctxAt(s.base.Add(5*time.Minute)), res.Claim.ID, s.donor, res.OTP)
	s.Require().NoError(err)

	at := s.base.Add(40 * time.Minute)
	c, err := s.engine.MarkCollected(s.ctxAt(at), res.Claim.ID, s.claimant, &claimmodels.Feedback{Rating: 4})
	s.Require().NoError(err)
	s.Equal(id.ClaimCollected, c.Status)
	s.Require().NotNil(c.CollectedAt)

	got, err := s.donations.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationCollected, got.Status)
	s.Nil(got.ClaimedBy)
	s.Empty(got.OTP)
	s.Require().NotNil(got.CollectedAt)
	s.True(got.CollectedAt.Equal(at))

	donor, err := s.users.FindByID(context.Background(), s.donor)
	s.Require().NoError(err)
	s.InDelta(4.9, donor.IntegrityScore, 0.001)
}

func (s *EngineSuite) TestMarkCollectedRequiresConfirmedClaim() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	_, err = s.engine.MarkCollected(s.ctxAt(s.base), res.Claim.ID, s.claimant, nil)
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestMarkCollectedRejectsInvalidRating() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)
	_, err = s.engine.ConfirmPickup(s.ctxAt(s.base), res.Claim.ID, s.donor, res.OTP)
	s.Require().NoError(err)

	_, err = s.engine.MarkCollected(s.ctxAt(s.base), res.Claim.ID, s.claimant, &claimmodels.Feedback{Rating: 6})
	s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestMarkCollectedRequiresClaimant() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	_, err = s.engine.MarkCollected(s.ctxAt(s.base), res.Claim.ID, s.donor, nil)
	s.Equal(dErrors.CodeForbidden, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestCancelReleasesDonationForOthers() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	s.Require().NoError(s.engine.CancelClaim(s.ctxAt(s.base), res.Claim.ID, s.claimant))

	got, err := s.donations.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationAvailable, got.Status)
	s.Nil(got.ClaimedBy)
	s.Empty(got.OTP)

	// A different claimant can pick it up, and gets a fresh code.
	second := id.NewUserID()
	res2, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, second, "")
	s.Require().NoError(err)
	s.NotEqual(res.OTP, res2.OTP)

	// The spent code from the first claim no longer confirms anything.
	_, err = s.engine.ConfirmPickup(s.ctxAt(s.base), res2.Claim.ID, s.donor, res.OTP)
	s.Equal(dErrors.CodeInvalidCode, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestCancelCollectedClaimConflicts() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)
	_, err = s.engine.ConfirmPickup(s.ctxAt(s.base), res.Claim.ID, s.donor, res.OTP)
	s.Require().NoError(err)
	_, err = s.engine.MarkCollected(s.ctxAt(s.base), res.Claim.ID, s.claimant, nil)
	s.Require().NoError(err)

	err = s.engine.CancelClaim(s.ctxAt(s.base), res.Claim.ID, s.claimant)
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
}

func (s *EngineSuite) TestExpireDueClaimsIsIdempotent() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	// Confirmed claims are immune to the sweep.
	d2 := s.seedDonation()
	res2, err := s.engine.CreateClaim(s.ctxAt(s.base), d2.ID, id.NewUserID(), "")
	s.Require().NoError(err)
	_, err = s.engine.ConfirmPickup(s.ctxAt(s.base), res2.Claim.ID, s.donor, res2.OTP)
	s.Require().NoError(err)

	late := s.base.Add(20 * time.Minute)
	n, err := s.engine.ExpireDueClaims(context.Background(), late)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.engine.ExpireDueClaims(context.Background(), late)
	s.Require().NoError(err)
	s.Equal(0, n)

	c, err := s.claims.FindByID(context.Background(), res.Claim.ID)
	s.Require().NoError(err)
	s.Equal(id.ClaimExpired, c.Status)

	got, err := s.donations.FindByID(context.Background(), d.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationAvailable, got.Status)
}

func (s *EngineSuite) TestExpireDueDonationsSkipsClaimed() {
	stale := s.seedDonation()
	claimed := s.seedDonation()
	_, err := s.engine.CreateClaim(s.ctxAt(s.base), claimed.ID, s.claimant, "")
	s.Require().NoError(err)

	past := stale.ExpiryDate.Add(time.Hour)
	n, err := s.engine.ExpireDueDonations(context.Background(), past)
	s.Require().NoError(err)
	s.Equal(1, n)

	got, err := s.donations.FindByID(context.Background(), stale.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationExpired, got.Status)

	// The claimed one rides out its claim first.
	got, err = s.donations.FindByID(context.Background(), claimed.ID)
	s.Require().NoError(err)
	s.Equal(id.DonationClaimed, got.Status)
}

func (s *EngineSuite) TestGetClaimPartiesOnly() {
	d := s.seedDonation()
	res, err := s.engine.CreateClaim(s.ctxAt(s.base), d.ID, s.claimant, "")
	s.Require().NoError(err)

	_, err = s.engine.GetClaim(context.Background(), res.Claim.ID, s.claimant)
	s.NoError(err)
	_, err = s.engine.GetClaim(context.Background(), res.Claim.ID, s.donor)
	s.NoError(err)
	_, err = s.engine.GetClaim(context.Background(), res.Claim.ID, id.NewUserID())
	s.Equal(dErrors.CodeForbidden, dErrors.CodeOf(err))
}
