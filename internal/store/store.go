package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// requiredColumns are the models-table columns this tool depends on.
var requiredColumns = []string{"id", "name", "type", "hash", "path", "file_size", "created_at"}

// ErrSchemaUnsupported indicates the models table is missing columns this tool needs.
var ErrSchemaUnsupported = errors.New("unsupported models schema")

// Store provides read and delete access to the model database.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to an existing model database. The file must already exist;
// this tool never creates or migrates InvokeAI's schema.
func Open(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("model database %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Pragmas apply per connection; pin the pool to a single one so they
	// hold for every statement and concurrent writers queue on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.checkSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// List returns every model record in a single full-scan query, ordered by
// insertion (rowid) so results are stable across runs.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM models ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetByID fetches a single record, returning nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM models WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}
	return &record, nil
}

// DeleteByID removes a record by primary key. Deleting an absent id is not an
// error; the row count is returned so callers can tell.
func (s *Store) DeleteByID(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete model %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Count returns the number of model records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM models`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count models: %w", err)
	}
	return count, nil
}

// CheckHealth inspects the database without requiring a fully valid schema.
func CheckHealth(ctx context.Context, dbPath string) Health {
	health := Health{DBPath: dbPath}

	if _, err := os.Stat(dbPath); err != nil {
		health.Error = err.Error()
		return health
	}
	health.DatabaseExists = true

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		health.Error = err.Error()
		return health
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		health.Error = err.Error()
		return health
	}
	health.DatabaseReadable = true

	present, err := tableColumns(ctx, db, "models")
	if err != nil {
		health.Error = err.Error()
		return health
	}
	health.TableExists = len(present) > 0
	health.ColumnsPresent = present
	health.MissingColumns = missingColumns(present)

	if health.TableExists && len(health.MissingColumns) == 0 {
		if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM models`).Scan(&health.TotalRecords); err != nil {
			health.Error = err.Error()
		}
	}
	return health
}

func (s *Store) checkSchema(ctx context.Context) error {
	present, err := tableColumns(ctx, s.db, "models")
	if err != nil {
		return err
	}
	if len(present) == 0 {
		return fmt.Errorf("%w: models table not found in %s", ErrSchemaUnsupported, s.path)
	}
	if missing := missingColumns(present); len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrSchemaUnsupported, strings.Join(missing, ", "))
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func missingColumns(present []string) []string {
	set := make(map[string]struct{}, len(present))
	for _, name := range present {
		set[strings.ToLower(name)] = struct{}{}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := set[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
