package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sharebite/internal/donation/models"
	id "sharebite/pkg/domain"
)

// PostgresStore persists donations in PostgreSQL. Pure I/O; all state-gate
// decisions belong to the lifecycle engine.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const donationColumns = `
	id, donor_id, category, description, quantity, unit, expiry_date,
	pickup_start, pickup_end, address, city, lat, lng,
	status, claimed_by, claimed_at, otp, estimated_value, collected_at,
	created_at, updated_at
`

func (s *PostgresStore) Create(ctx context.Context, d *models.Donation) error {
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID.String(), d.Donor.String(), d.Category.String(), d.Description,
		d.Quantity, d.Unit, d.ExpiryDate,
		d.PickupWindow.Start, d.PickupWindow.End,
		d.Location.Address, d.Location.City, d.Location.Lat, d.Location.Lng,
		d.Status.String(), claimedByValue(d.ClaimedBy), d.ClaimedAt, nullString(d.OTP),
		d.EstimatedValue, d.CollectedAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create donation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, donationID id.DonationID) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	d, err := scanDonation(s.db.QueryRowContext(ctx, query, donationID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find donation: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations`
	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		add("status = ", filter.Status.String())
	}
	if filter.Category != "" {
		add("category = ", filter.Category.String())
	}
	if filter.City != "" {
		add("city = ", filter.City)
	}
	if !filter.Donor.IsZero() {
		add("donor_id = ", filter.Donor.String())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var out []*models.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("list donations: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CompareAndSetStatus applies the patch in a single conditional UPDATE. The
// WHERE clause on the expected status is what prevents double-claims; a zero
// RowsAffected means the caller lost the race.
func (s *PostgresStore) CompareAndSetStatus(ctx context.Context, donationID id.DonationID, expected id.DonationStatus, patch StatusPatch) (bool, error) {
	query := `
		UPDATE donations
		SET status = $3, claimed_by = $4, claimed_at = $5, otp = $6, collected_at = $7, updated_at = now()
		WHERE id = $1 AND status = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		donationID.String(), expected.String(),
		patch.Status.String(), claimedByValue(patch.ClaimedBy), patch.ClaimedAt,
		nullString(patch.OTP), patch.CollectedAt,
	)
	if err != nil {
		return false, fmt.Errorf("compare-and-set donation status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("compare-and-set donation status: %w", err)
	}
	return affected == 1, nil
}

func (s *PostgresStore) UpdateDetails(ctx context.Context, donationID id.DonationID, patch DetailsPatch, estimatedValue float64) error {
	query := `
		UPDATE donations
		SET description = COALESCE($2, description),
			quantity = COALESCE($3, quantity),
			unit = COALESCE($4, unit),
			expiry_date = COALESCE($5, expiry_date),
			pickup_start = COALESCE($6, pickup_start),
			pickup_end = COALESCE($7, pickup_end),
			estimated_value = $8,
			updated_at = now()
		WHERE id = $1
	`
	var pickupStart, pickupEnd *time.Time
	if patch.PickupWindow != nil {
		pickupStart = &patch.PickupWindow.Start
		pickupEnd = &patch.PickupWindow.End
	}
	res, err := s.db.ExecContext(ctx, query,
		donationID.String(), patch.Description, patch.Quantity, patch.Unit,
		patch.ExpiryDate, pickupStart, pickupEnd, estimatedValue,
	)
	if err != nil {
		return fmt.Errorf("update donation details: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update donation details: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListExpiredAvailable(ctx context.Context, now time.Time) ([]*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE status = $1 AND expiry_date < $2`
	rows, err := s.db.QueryContext(ctx, query, id.DonationAvailable.String(), now)
	if err != nil {
		return nil, fmt.Errorf("list expired donations: %w", err)
	}
	defer rows.Close()

	var out []*models.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("list expired donations: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*models.Donation, error) {
	var (
		d         models.Donation
		rawID     string
		rawDonor  string
		rawCat    string
		rawStatus string
		claimedBy sql.NullString
		otp       sql.NullString
	)
	err := row.Scan(
		&rawID, &rawDonor, &rawCat, &d.Description, &d.Quantity, &d.Unit, &d.ExpiryDate,
		&d.PickupWindow.Start, &d.PickupWindow.End,
		&d.Location.Address, &d.Location.City, &d.Location.Lat, &d.Location.Lng,
		&rawStatus, &claimedBy, &d.ClaimedAt, &otp, &d.EstimatedValue, &d.CollectedAt,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	donationID, err := id.ParseDonationID(rawID)
	if err != nil {
		return nil, err
	}
	donor, err := id.ParseUserID(rawDonor)
	if err != nil {
		return nil, err
	}
	d.ID = donationID
	d.Donor = donor
	d.Category = id.Category(rawCat)
	d.Status = id.DonationStatus(rawStatus)
	if claimedBy.Valid {
		u, err := id.ParseUserID(claimedBy.String)
		if err != nil {
			return nil, err
		}
		d.ClaimedBy = &u
	}
	d.OTP = otp.String
	return &d, nil
}

func claimedByValue(u *id.UserID) any {
	if u == nil {
		return nil
	}
	return u.String()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
