package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Itineraries() store.Itineraries { return &itineraries{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type itineraries struct{ db *sql.DB }

const itineraryColumns = `itinerary_id, owner_id, status, title, plan_data, enrichment_degraded, creation_time, update_time`

func (r *itineraries) Create(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error) {
	id := it.ItineraryID
	if id == "" {
		id = uuid.New().String()
	}
	var created time.Time
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO itineraries (itinerary_id, owner_id, status, title, plan_data, enrichment_degraded)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING creation_time
    `, id, it.OwnerID, string(it.Status), it.Title, []byte(it.PlanData), it.EnrichmentDegraded)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *it
	out.ItineraryID = id
	out.CreationTime = created
	return &out, nil
}

func (r *itineraries) GetByID(ctx context.Context, ownerID, itineraryID string) (*model.Itinerary, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+itineraryColumns+`
        FROM itineraries WHERE itinerary_id=$1
    `, itineraryID)
	it, err := scanItinerary(row)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != ownerID {
		return nil, model.ErrForbidden
	}
	return it, nil
}

func (r *itineraries) List(ctx context.Context, ownerID string, status *model.Status) ([]*model.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE owner_id=$1`
	args := []interface{}{ownerID}
	if status != nil {
		query += ` AND status=$2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY creation_time DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *itineraries) GetMain(ctx context.Context, ownerID string) (*model.Itinerary, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+itineraryColumns+`
        FROM itineraries WHERE owner_id=$1 AND status=$2
    `, ownerID, string(model.StatusMain))
	return scanItinerary(row)
}

// UpdateStatus applies one transition inside a transaction. The current row
// is locked, the edge is validated against the state machine, and a MAIN
// promotion demotes the previous MAIN in the same transaction. The partial
// unique index on (owner_id) WHERE status='MAIN' backstops the invariant
// under concurrent promotions.
func (r *itineraries) UpdateStatus(ctx context.Context, ownerID, itineraryID string, to model.Status, title *string) (*model.Itinerary, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var curOwner string
	var curStatus string
	err = tx.QueryRowContext(ctx, `
        SELECT owner_id, status FROM itineraries WHERE itinerary_id=$1 FOR UPDATE
    `, itineraryID).Scan(&curOwner, &curStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if curOwner != ownerID {
		return nil, model.ErrForbidden
	}
	from := model.Status(curStatus)
	if !model.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, from, to)
	}

	if to == model.StatusMain && from != model.StatusMain {
		if _, err := tx.ExecContext(ctx, `
            UPDATE itineraries SET status=$1, update_time=now()
            WHERE owner_id=$2 AND status=$3 AND itinerary_id<>$4
        `, string(model.StatusConfirmed), ownerID, string(model.StatusMain), itineraryID); err != nil {
			return nil, err
		}
	}

	row := tx.QueryRowContext(ctx, `
        UPDATE itineraries SET status=$1, title=COALESCE($2, title), update_time=now()
        WHERE itinerary_id=$3
        RETURNING `+itineraryColumns+`
    `, string(to), title, itineraryID)
	it, err := scanItinerary(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return it, nil
}

func (r *itineraries) Delete(ctx context.Context, ownerID, itineraryID string) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var curOwner string
	var curStatus string
	err = tx.QueryRowContext(ctx, `
        SELECT owner_id, status FROM itineraries WHERE itinerary_id=$1 FOR UPDATE
    `, itineraryID).Scan(&curOwner, &curStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		return err
	}
	if curOwner != ownerID {
		return model.ErrForbidden
	}
	if !model.CanDelete(model.Status(curStatus)) {
		return fmt.Errorf("%w: cannot delete %s itinerary", model.ErrInvalidTransition, curStatus)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM itineraries WHERE itinerary_id=$1`, itineraryID); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItinerary(row rowScanner) (*model.Itinerary, error) {
	var it model.Itinerary
	var status string
	var title sql.NullString
	var planData []byte
	var updated sql.NullTime
	if err := row.Scan(&it.ItineraryID, &it.OwnerID, &status, &title, &planData, &it.EnrichmentDegraded, &it.CreationTime, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	it.Status = model.Status(status)
	if title.Valid {
		it.Title = &title.String
	}
	it.PlanData = planData
	if updated.Valid {
		t := updated.Time
		it.UpdateTime = &t
	}
	return &it, nil
}
