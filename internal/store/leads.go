package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leadgate-engine/internal/domain"
	"leadgate-engine/internal/rank"
)

// LeadRow is the persisted view of a lead.
type LeadRow struct {
	ID         string
	Source     string
	ReceivedAt time.Time
	URL        string
	Title      string
	Company    string
	Status     domain.TrackingStatus
	Signal     int
	BestTarget string
	Reasons    []string
}

// Ingest implements the source.Sink contract: one attempt, duplicate items
// absorbed silently, real failures returned to the caller.
func (s *Store) Ingest(ctx context.Context, lead domain.LeadItem) error {
	_, _, err := s.InsertLeadIfNew(ctx, lead)
	return err
}

// InsertLeadIfNew persists a lead unless its source key is already known.
// Returns the row id (existing or new) and whether a row was added.
func (s *Store) InsertLeadIfNew(ctx context.Context, lead domain.LeadItem) (id string, added bool, err error) {
	key := SourceKey(lead)

	rawB, _ := json.Marshal(lead.Raw)
	metaB, _ := json.Marshal(lead.Meta)

	receivedAt := lead.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	status := domain.StatusNew
	if lead.URL != "" && lead.Title == "" {
		status = domain.StatusLinkOnly
	}

	id = uuid.NewString()
	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO leads(id, source, received_at, url, title, company, raw, meta, status, source_key)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		id,
		string(lead.Source),
		receivedAt.Format(time.RFC3339),
		lead.URL,
		lead.Title,
		lead.Company,
		string(rawB),
		string(metaB),
		string(status),
		key,
	)
	if err != nil {
		return "", false, fmt.Errorf("insert lead: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return id, true, nil
	}

	// duplicate; hand back the existing row id
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM leads WHERE source_key = ?;`, key).Scan(&id); err != nil {
		return "", false, fmt.Errorf("lookup existing lead: %w", err)
	}
	return id, false, nil
}

// ApplyVerdict records a gate result against a stored lead. Passed leads
// move to SCORED; failed ones keep their current status but still carry the
// reasons and signal for inspection.
func (s *Store) ApplyVerdict(ctx context.Context, id string, res rank.Result) error {
	signal := 0
	bestTarget := ""
	if res.Best != nil {
		signal = res.Best.Signal
		bestTarget = res.Best.ID
	}
	reasonsB, _ := json.Marshal(res.Reasons)

	if res.Passed {
		_, err := s.db.ExecContext(ctx, `
UPDATE leads SET signal = ?, best_target = ?, reasons = ?, status = ? WHERE id = ?;`,
			signal, bestTarget, string(reasonsB), string(domain.StatusScored), id)
		if err != nil {
			return fmt.Errorf("apply verdict: %w", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
UPDATE leads SET signal = ?, best_target = ?, reasons = ? WHERE id = ?;`,
		signal, bestTarget, string(reasonsB), id)
	if err != nil {
		return fmt.Errorf("apply verdict: %w", err)
	}
	return nil
}

// UpdateStatus normalizes raw through the lifecycle rules and stores it.
func (s *Store) UpdateStatus(ctx context.Context, id string, raw string) (domain.TrackingStatus, error) {
	status := domain.NormalizeStatus(raw, domain.StatusNew)
	_, err := s.db.ExecContext(ctx, `UPDATE leads SET status = ? WHERE id = ?;`, string(status), id)
	if err != nil {
		return "", fmt.Errorf("update status: %w", err)
	}
	return status, nil
}

// ListRecent returns up to limit leads, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]LeadRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, source, received_at, url, title, company, status, signal, best_target, reasons
FROM leads
ORDER BY received_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []LeadRow
	for rows.Next() {
		var r LeadRow
		var receivedStr, statusStr, reasonsJSON string
		if err := rows.Scan(&r.ID, &r.Source, &receivedStr, &r.URL, &r.Title, &r.Company,
			&statusStr, &r.Signal, &r.BestTarget, &reasonsJSON); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		r.ReceivedAt, _ = time.Parse(time.RFC3339, receivedStr)
		r.Status = domain.NormalizeStatus(statusStr, domain.StatusNew)
		_ = json.Unmarshal([]byte(reasonsJSON), &r.Reasons)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SourceKey derives the dedup key for a lead: channel-native message ids
// when present, the URL otherwise, and finally title+company so even sparse
// manual pastes dedup sensibly.
func SourceKey(lead domain.LeadItem) string {
	if id, ok := lead.Meta["email_id"].(string); ok && id != "" {
		return hashKey("email:" + id)
	}
	if id, ok := lead.Meta["message_id"].(string); ok && id != "" {
		return hashKey("msg:" + id)
	}
	if lead.URL != "" {
		return hashKey("url:" + lead.URL)
	}
	if lead.Title != "" || lead.Company != "" {
		return hashKey(string(lead.Source) + ":" + lead.Title + "|" + lead.Company)
	}
	// nothing identifying at all; never dedup
	return hashKey("anon:" + uuid.NewString())
}

func hashKey(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
