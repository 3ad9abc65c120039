package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
)

// JournalRepository persists the audit journal of dashboard mutations.
type JournalRepository struct {
	db *pgxpool.Pool
}

// NewJournalRepository constructs a JournalRepository.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// Append stores an entry, filling in its ID and timestamp when unset.
func (r *JournalRepository) Append(ctx context.Context, entry model.JournalEntry) (*model.JournalEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var fields any
	if len(entry.Fields) > 0 {
		fields = []byte(entry.Fields)
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO journal (id, entity, action, record_id, fields, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, string(entry.Entity), string(entry.Action), entry.RecordID, fields, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert journal entry: %w", err)
	}
	return &entry, nil
}

// Recent returns up to limit entries, newest first.
func (r *JournalRepository) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, entity, action, record_id, COALESCE(fields, 'null'::jsonb), created_at
		 FROM journal
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JournalEntry, error) {
		var (
			e              model.JournalEntry
			entity, action string
			fields         []byte
		)
		if err := row.Scan(&e.ID, &entity, &action, &e.RecordID, &fields, &e.CreatedAt); err != nil {
			return e, err
		}
		e.Entity = model.EntityType(entity)
		e.Action = model.JournalAction(action)
		if string(fields) != "null" {
			e.Fields = fields
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan journal entry: %w", err)
	}
	return entries, nil
}
