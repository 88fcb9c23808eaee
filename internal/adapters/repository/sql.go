package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/pkg/metrics"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DefaultTable holds one row per team-season.
const DefaultTable = "team_seasons"

// SQLStore reads team-season rows from a SQL database.
type SQLStore struct {
	db    *sqlx.DB
	table string
}

// Open connects to driver ("sqlite" or "postgres") at dsn and pings it.
func Open(ctx context.Context, driver, dsn string, opts ...SQLOption) (*SQLStore, error) {
	var name string
	switch driver {
	case "sqlite":
		name = "sqlite"
	case "postgres":
		name = "pgx"
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, driver)
	}
	db, err := sqlx.ConnectContext(ctx, name, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", model.ErrConfiguration, driver, err)
	}
	if name == "sqlite" {
		// Each connection to an in-memory database sees its own schema.
		db.SetMaxOpenConns(1)
	}
	return NewSQLStore(db, opts...), nil
}

// NewSQLStore wraps an existing connection.
func NewSQLStore(db *sqlx.DB, opts ...SQLOption) *SQLStore {
	s := &SQLStore{db: db, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the connection pool.
func (s *SQLStore) Close() error { return s.db.Close() }

// EnsureSchema creates the team-season table if it is missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	cols := make([]string, 0, model.FieldCount+3)
	cols = append(cols, "TeamName TEXT NOT NULL", "Season INTEGER NOT NULL")
	for _, name := range model.FieldNames() {
		cols = append(cols, name+" DOUBLE PRECISION")
	}
	cols = append(cols, "PRIMARY KEY (TeamName, Season)")
	q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.table, strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

// Upsert writes records, replacing existing rows with the same key.
func (s *SQLStore) Upsert(ctx context.Context, records ...model.TeamSeasonRecord) error {
	names := model.FieldNames()
	cols := append([]string{"TeamName", "Season"}, names...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	sets := make([]string, len(names))
	for i, n := range names {
		sets[i] = n + " = excluded." + n
	}
	q := s.db.Rebind(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (TeamName, Season) DO UPDATE SET %s",
		s.table, strings.Join(cols, ", "), marks, strings.Join(sets, ", ")))

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, rec := range records {
		args := make([]any, 0, len(cols))
		args = append(args, rec.Team, rec.Season)
		for _, f := range model.Fields() {
			args = append(args, rec.Stats.Get(f))
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("upsert %s %d: %w", rec.Team, rec.Season, err)
		}
	}
	return tx.Commit()
}

// FindTeamSeason implements Store.
func (s *SQLStore) FindTeamSeason(ctx context.Context, team string, season int) (model.TeamSeasonRecord, error) {
	start := time.Now()
	defer func() { metrics.RecordLookupLatency(float64(time.Since(start).Microseconds()) / 1000) }()

	q := s.db.Rebind(fmt.Sprintf("SELECT * FROM %s WHERE TeamName = ? AND Season = ?", s.table))
	row := make(map[string]any)
	if err := s.db.QueryRowxContext(ctx, q, team, season).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TeamSeasonRecord{}, notFound(team, season)
		}
		return model.TeamSeasonRecord{}, fmt.Errorf("query %s %d: %w", team, season, err)
	}
	return decodeRow(team, season, row)
}

// Count implements Store.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return n, nil
}

// decodeRow converts a scanned row into a record. Column names are matched
// case-insensitively since postgres folds unquoted identifiers.
func decodeRow(team string, season int, row map[string]any) (model.TeamSeasonRecord, error) {
	lower := make(map[string]any, len(row))
	for k, v := range row {
		lower[strings.ToLower(k)] = v
	}
	values := make(map[string]float64, model.FieldCount)
	for _, name := range model.FieldNames() {
		raw, ok := lower[strings.ToLower(name)]
		if !ok || raw == nil {
			return model.TeamSeasonRecord{}, fmt.Errorf("%w: %s %d has no value for %s", model.ErrMalformedRecord, team, season, name)
		}
		v, err := toFloat(raw)
		if err != nil {
			return model.TeamSeasonRecord{}, fmt.Errorf("%w: %s %d column %s: %w", model.ErrMalformedRecord, team, season, name, err)
		}
		values[name] = v
	}
	return model.NewTeamSeasonRecord(team, season, values)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
