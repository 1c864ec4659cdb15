package reminder

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// Store is the durable job registry. Jobs persisted here survive process
// restarts; the scheduler reloads them on boot.
type Store interface {
	Upsert(ctx context.Context, j Job) error
	List(ctx context.Context) ([]Job, error)
}

type postgresStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Upsert(ctx context.Context, j Job) error {
	query := `
		INSERT INTO reminder_jobs (phone, medicine, fire_time, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (phone, medicine, fire_time) DO UPDATE SET
			updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, j.Phone, j.Medicine, j.FireTime); err != nil {
		return errors.Wrap(err, "upsert reminder job")
	}
	return nil
}

func (s *postgresStore) List(ctx context.Context) ([]Job, error) {
	query := `SELECT phone, medicine, fire_time, created_at, updated_at FROM reminder_jobs`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list reminder jobs")
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var phone, medicine, fireTime string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&phone, &medicine, &fireTime, &createdAt, &updatedAt); err != nil {
			return nil, errors.Wrap(err, "scan reminder job")
		}
		j, err := NewJob(phone, medicine, fireTime)
		if err != nil {
			// A malformed persisted row must not keep the rest of the
			// registry from loading.
			continue
		}
		j.CreatedAt = createdAt
		j.UpdatedAt = updatedAt
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate reminder jobs")
	}
	return jobs, nil
}
