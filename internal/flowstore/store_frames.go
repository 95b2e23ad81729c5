package flowstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Append stores rec as the next frame of its flow. ID, Sequence and
// CreatedAt are filled in on success.
func (s *Store) Append(ctx context.Context, rec *FrameRecord) error {
	ctx = ensureContext(ctx)
	if rec == nil {
		return errors.New("append frame: record is nil")
	}
	if rec.FlowID == uuid.Nil {
		return errors.New("append frame: flow id is required")
	}
	if len(rec.XML) == 0 {
		return errors.New("append frame: xml is empty")
	}
	now := time.Now().UTC()
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var last sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(sequence) FROM frames WHERE flow_id = ?`, rec.FlowID.String(),
		).Scan(&last); err != nil {
			return err
		}
		sequence := last.Int64 + 1

		res, err := tx.ExecContext(ctx, `INSERT INTO frames (
			flow_id, sequence, frame_format_id, frame_type, start_ns, duration_ns,
			changed_new, changed_changed, changed_extended, changed_expired,
			source_path, xml, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.FlowID.String(), sequence, rec.FrameFormatID, rec.FrameType,
			int64(rec.Start), int64(rec.Duration),
			rec.Changed.New, rec.Changed.Changed, rec.Changed.Extended, rec.Changed.Expired,
			nullableString(rec.SourcePath), rec.XML, formatTime(now),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		rec.ID = id
		rec.Sequence = sequence
		rec.CreatedAt = now
		return nil
	})
}

// Latest returns the most recent frame of flowID, or nil if the flow has
// no frames.
func (s *Store) Latest(ctx context.Context, flowID uuid.UUID) (*FrameRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+frameColumns+` FROM frames WHERE flow_id = ? ORDER BY sequence DESC LIMIT 1`,
		flowID.String(),
	)
	rec, err := scanFrame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest frame: %w", err)
	}
	return rec, nil
}

// History returns every frame of flowID in sequence order.
func (s *Store) History(ctx context.Context, flowID uuid.UUID) ([]*FrameRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+frameColumns+` FROM frames WHERE flow_id = ? ORDER BY sequence`,
		flowID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("frame history: %w", err)
	}
	defer rows.Close()

	var records []*FrameRecord
	for rows.Next() {
		rec, err := scanFrame(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Flows summarises every stored flow, most recently updated first.
func (s *Store) Flows(ctx context.Context) ([]FlowSummary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.flow_id, c.frames, f.sequence, f.frame_format_id, f.start_ns + f.duration_ns, f.created_at
		FROM frames f
		JOIN (
			SELECT flow_id, COUNT(1) AS frames, MAX(sequence) AS last_sequence
			FROM frames GROUP BY flow_id
		) c ON c.flow_id = f.flow_id AND c.last_sequence = f.sequence
		ORDER BY f.created_at DESC, f.flow_id`)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	var flows []FlowSummary
	for rows.Next() {
		var (
			summary    FlowSummary
			flowRaw    string
			endNS      int64
			createdRaw string
		)
		if err := rows.Scan(&flowRaw, &summary.Frames, &summary.LastSequence,
			&summary.LastFrameID, &endNS, &createdRaw); err != nil {
			return nil, err
		}
		if summary.FlowID, err = uuid.Parse(flowRaw); err != nil {
			return nil, fmt.Errorf("parse flow id %q: %w", flowRaw, err)
		}
		summary.LastEnd = time.Duration(endNS)
		if created, err := parseTimeString(createdRaw); err == nil {
			summary.LastUpdatedAt = created
		}
		flows = append(flows, summary)
	}
	return flows, rows.Err()
}

// DeleteFlow removes every frame of flowID and returns how many were removed.
func (s *Store) DeleteFlow(ctx context.Context, flowID uuid.UUID) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM frames WHERE flow_id = ?`, flowID.String())
	if err != nil {
		return 0, fmt.Errorf("delete flow: %w", err)
	}
	return res.RowsAffected()
}
