package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"sharebite/internal/claim/models"
	id "sharebite/pkg/domain"
)

// uniqueViolation is the postgres error code raised by the
// claims(donation_id, claimant_id) constraint.
const uniqueViolation = "23505"

// PostgresStore persists claims in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const claimColumns = `
	id, donation_id, claimant_id, status, otp, reason,
	claimed_at, expires_at, confirmed_at, collected_at, feedback
`

func (s *PostgresStore) Create(ctx context.Context, c *models.Claim) error {
	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	feedback, err := feedbackValue(c.Feedback)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query,
		c.ID.String(), c.DonationID.String(), c.Claimant.String(),
		c.Status.String(), c.OTP, c.Reason,
		c.ClaimedAt, c.ExpiresAt, c.ConfirmedAt, c.CollectedAt, feedback,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateClaim
		}
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	c, err := scanClaim(s.db.QueryRowContext(ctx, query, claimID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find claim: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims`
	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}
	if !filter.Claimant.IsZero() {
		add("claimant_id = ", filter.Claimant.String())
	}
	if !filter.Donation.IsZero() {
		add("donation_id = ", filter.Donation.String())
	}
	if filter.Status != "" {
		add("status = ", filter.Status.String())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY claimed_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var out []*models.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("list claims: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CompareAndSetStatus(ctx context.Context, claimID id.ClaimID, expected id.ClaimStatus, patch StatusPatch) (bool, error) {
	query := `
		UPDATE claims
		SET status = $3,
			confirmed_at = COALESCE($4, confirmed_at),
			collected_at = COALESCE($5, collected_at),
			feedback = COALESCE($6, feedback)
		WHERE id = $1 AND status = $2
	`
	feedback, err := feedbackValue(patch.Feedback)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, query,
		claimID.String(), expected.String(), patch.Status.String(),
		patch.ConfirmedAt, patch.CollectedAt, feedback,
	)
	if err != nil {
		return false, fmt.Errorf("compare-and-set claim status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("compare-and-set claim status: %w", err)
	}
	return affected == 1, nil
}

// ListPendingExpired drives the sweeper; backed by the (status, expires_at)
// index.
func (s *PostgresStore) ListPendingExpired(ctx context.Context, now time.Time) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE status = $1 AND expires_at < $2`
	rows, err := s.db.QueryContext(ctx, query, id.ClaimPending.String(), now)
	if err != nil {
		return nil, fmt.Errorf("list expired claims: %w", err)
	}
	defer rows.Close()

	var out []*models.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("list expired claims: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a claim row. Only the engine's compensation path uses it,
// when the donation compare-and-set was lost after the row was written.
func (s *PostgresStore) Delete(ctx context.Context, claimID id.ClaimID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM claims WHERE id = $1`, claimID.String())
	if err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (*models.Claim, error) {
	var (
		c           models.Claim
		rawID       string
		rawDonation string
		rawClaimant string
		rawStatus   string
		feedback    []byte
	)
	err := row.Scan(
		&rawID, &rawDonation, &rawClaimant, &rawStatus, &c.OTP, &c.Reason,
		&c.ClaimedAt, &c.ExpiresAt, &c.ConfirmedAt, &c.CollectedAt, &feedback,
	)
	if err != nil {
		return nil, err
	}
	claimID, err := id.ParseClaimID(rawID)
	if err != nil {
		return nil, err
	}
	donationID, err := id.ParseDonationID(rawDonation)
	if err != nil {
		return nil, err
	}
	claimant, err := id.ParseUserID(rawClaimant)
	if err != nil {
		return nil, err
	}
	c.ID = claimID
	c.DonationID = donationID
	c.Claimant = claimant
	c.Status = id.ClaimStatus(rawStatus)
	if len(feedback) > 0 {
		var f models.Feedback
		if err := json.Unmarshal(feedback, &f); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
		c.Feedback = &f
	}
	return &c, nil
}

func feedbackValue(f *models.Feedback) (any, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode feedback: %w", err)
	}
	return b, nil
}
