package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	id "sharebite/pkg/domain"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var metadata []byte
	if len(event.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("encode audit metadata: %w", err)
		}
	}
	query := `
		INSERT INTO audit_events (actor_id, action, donation_id, claim_id, metadata, client_ip, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.Actor.String(), string(event.Action),
		nullString(event.DonationID), nullString(event.ClaimID),
		metadata, nullString(event.ClientIP), nullString(event.UserAgent),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actor id.UserID) ([]Event, error) {
	query := `
		SELECT actor_id, action, donation_id, claim_id, metadata, client_ip, user_agent, occurred_at
		FROM audit_events
		WHERE actor_id = $1
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query, actor.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e          Event
			rawActor   string
			donationID sql.NullString
			claimID    sql.NullString
			metadata   []byte
			clientIP   sql.NullString
			userAgent  sql.NullString
		)
		if err := rows.Scan(&rawActor, &e.Action, &donationID, &claimID, &metadata, &clientIP, &userAgent, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		actorID, err := id.ParseUserID(rawActor)
		if err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		e.Actor = actorID
		e.DonationID = donationID.String
		e.ClaimID = claimID.String
		e.ClientIP = clientIP.String
		e.UserAgent = userAgent.String
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode audit metadata: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
