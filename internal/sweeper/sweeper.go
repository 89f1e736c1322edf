// Package sweeper drives the background expiry of overdue claims and stale
// donations. It is a safety net behind the lazy expiry check on confirm:
// correctness never depends on the sweeper having run, only promptness does.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"sharebite/internal/platform/metrics"
	"sharebite/pkg/requestcontext"
)

// Engine is the subset of the claim engine the sweeper drives. Both calls are
// idempotent and safe to run from multiple instances at once.
type Engine interface {
	ExpireDueClaims(ctx context.Context, now time.Time) (int, error)
	ExpireDueDonations(ctx context.Context, now time.Time) (int, error)
}

// Sweeper runs the two expiry loops. Claims are swept frequently because the
// confirmation window is minutes long; donations only age out over days, so
// an hourly pass is plenty.
type Sweeper struct {
	engine           Engine
	metrics          *metrics.Metrics
	logger           *slog.Logger
	claimInterval    time.Duration
	donationInterval time.Duration
}

func New(engine Engine, m *metrics.Metrics, logger *slog.Logger, claimInterval, donationInterval time.Duration) *Sweeper {
	return &Sweeper{
		engine:           engine,
		metrics:          m,
		logger:           logger,
		claimInterval:    claimInterval,
		donationInterval: donationInterval,
	}
}

// Result reports one sweep's work.
type Result struct {
	ExpiredClaimCount    int `json:"expiredClaimCount"`
	ExpiredDonationCount int `json:"expiredDonationCount"`
}

// Run blocks until ctx is cancelled, sweeping claims and donations on their
// own cadences.
func (s *Sweeper) Run(ctx context.Context) error {
	claimTick := time.NewTicker(s.claimInterval)
	defer claimTick.Stop()
	donationTick := time.NewTicker(s.donationInterval)
	defer donationTick.Stop()

	s.logger.InfoContext(ctx, "sweeper started",
		"claim_interval", s.claimInterval.String(),
		"donation_interval", s.donationInterval.String(),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "sweeper stopped")
			return ctx.Err()
		case <-claimTick.C:
			s.sweepClaims(ctx)
		case <-donationTick.C:
			s.sweepDonations(ctx)
		}
	}
}

// Sweep runs both passes once, immediately. Backs the manual sweep endpoint.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result
	claims, err := s.sweepClaims(ctx)
	if err != nil {
		return res, err
	}
	res.ExpiredClaimCount = claims

	donations, err := s.sweepDonations(ctx)
	if err != nil {
		return res, err
	}
	res.ExpiredDonationCount = donations
	return res, nil
}

func (s *Sweeper) sweepClaims(ctx context.Context) (int, error) {
	n, err := s.engine.ExpireDueClaims(ctx, requestcontext.Now(ctx))
	if err != nil {
		s.logger.ErrorContext(ctx, "claim sweep failed", "error", err.Error())
		return 0, err
	}
	if n > 0 {
		s.metrics.AddSweptClaims(n)
		s.logger.InfoContext(ctx, "claims expired by sweep", "count", n)
	}
	return n, nil
}

func (s *Sweeper) sweepDonations(ctx context.Context) (int, error) {
	n, err := s.engine.ExpireDueDonations(ctx, requestcontext.Now(ctx))
	if err != nil {
		s.logger.ErrorContext(ctx, "donation sweep failed", "error", err.Error())
		return 0, err
	}
	if n > 0 {
		s.metrics.AddSweptDonations(n)
		s.logger.InfoContext(ctx, "donations expired by sweep", "count", n)
	}
	return n, nil
}
