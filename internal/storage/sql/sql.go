package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slices"
	"sessionstore/internal/domain/models"
	"sessionstore/internal/storage"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	DefaultTableName = "shopify_sessions"
	DefaultPort      = 5432
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite3"
)

type Options struct {
	TableName string
	// Port is kept as a setting only, connection strings carry their own port.
	Port int
}

func (o Options) withDefaults() Options {
	if o.TableName == "" {
		o.TableName = DefaultTableName
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	return o
}

// Storage keeps shop sessions in a single table. It owns one database
// connection which is opened in the background by New; every method waits
// for that to finish and fails if it did.
type Storage struct {
	db     *sql.DB
	driver string
	opts   Options
	table  string

	ready   chan struct{}
	initErr error
	closed  atomic.Bool
}

// New returns immediately and connects in the background. Use Ready to wait
// for the connection and the sessions table.
func New(driver string, connStr string, opts Options) *Storage {
	opts = opts.withDefaults()

	s := &Storage{
		driver: driver,
		opts:   opts,
		table:  pq.QuoteIdentifier(opts.TableName),
		ready:  make(chan struct{}),
	}

	go s.init(connStr)

	return s
}

func (s *Storage) init(connStr string) {
	defer close(s.ready)

	const op = "storage.sql.New"

	ctx := context.Background()

	if err := validator.New().Var(s.opts.TableName, "required,max=63,excludesall=?"); err != nil {
		s.initErr = fmt.Errorf("%s: invalid table name: %w (%v)", op, storage.ErrSchema, err)
		return
	}

	db, err := sql.Open(s.driver, connStr)
	if err != nil {
		s.initErr = fmt.Errorf("%s: %w (%v)", op, storage.ErrConnection, err)
		return
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		s.initErr = fmt.Errorf("%s: %w (%s)", op, storage.ErrConnection, driverDetail(err))
		return
	}

	s.db = db

	if err := s.ensureTable(ctx); err != nil {
		db.Close()
		s.initErr = fmt.Errorf("%s: %w", op, err)
	}
}

func (s *Storage) ensureTable(ctx context.Context) error {
	exists, err := s.tableExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", s.table, columnDefinitions())
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table: %w (%s)", storage.ErrSchema, driverDetail(err))
	}

	return nil
}

// tableExists looks the table up in the current database only, several
// deployments may share one server.
func (s *Storage) tableExists(ctx context.Context) (bool, error) {
	var query string
	switch s.driver {
	case driverPostgres:
		query = `SELECT COUNT(*) FROM information_schema.tables
				WHERE table_catalog = current_database()
				AND table_schema = current_schema()
				AND table_name = ?`
	case driverSQLite:
		query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	default:
		return false, fmt.Errorf("%w: unsupported driver %q", storage.ErrSchema, s.driver)
	}

	var count int
	err := s.db.QueryRowContext(ctx, s.ConvertQuery(query), s.opts.TableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table: %w (%s)", storage.ErrSchema, driverDetail(err))
	}

	return count > 0, nil
}

// Ready blocks until the background initialization is done and returns its
// result. All callers observe the same result.
func (s *Storage) Ready(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.initErr != nil {
		return s.initErr
	}
	if s.closed.Load() {
		return storage.ErrClosed
	}

	return nil
}

func (s *Storage) Options() Options {
	return s.opts
}

// ConvertQuery turns the ? placeholders used throughout this package into
// the $n form lib/pq expects. Other drivers take the query as is.
func (s *Storage) ConvertQuery(query string) string {
	if s.driver != driverPostgres {
		return query
	}

	parts := strings.Split(query, "?")

	var builder strings.Builder
	builder.WriteString(parts[0])
	for i, part := range parts[1:] {
		builder.WriteString("$" + strconv.Itoa(i+1))
		builder.WriteString(part)
	}

	return builder.String()
}

// StoreSession inserts the session or overwrites every column of the stored
// one. Optional fields left empty are stored as NULL.
func (s *Storage) StoreSession(ctx context.Context, session models.Session) error {
	const op = "storage.sql.StoreSession"

	if err := s.await(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := session.Validate(); err != nil {
		return fmt.Errorf("%s: %w (%v)", op, storage.ErrInvalidSession, err)
	}

	query := s.ConvertQuery(fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
		s.table,
		columnList(),
		placeholders(len(columns)),
		keyColumn,
		upsertAssignments(),
	))

	r := newRow(session)
	if _, err := s.db.ExecContext(ctx, query, r.values()...); err != nil {
		return queryError(ctx, op, err)
	}

	return nil
}

// LoadSession returns nil without error when the id does not match exactly
// one row.
func (s *Storage) LoadSession(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage.sql.LoadSession"

	if err := s.await(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := s.ConvertQuery(fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		columnList(), s.table, keyColumn))

	sessions, err := s.query(ctx, query, id)
	if err != nil {
		return nil, queryError(ctx, op, err)
	}

	if len(sessions) != 1 {
		return nil, nil
	}

	return &sessions[0], nil
}

func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	const op = "storage.sql.DeleteSession"

	if err := s.await(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := s.ConvertQuery(fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`,
		s.table, keyColumn))

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return queryError(ctx, op, err)
	}

	return nil
}

// DeleteSessions removes all given ids in one statement. Unknown ids are
// ignored and an empty list does not reach the database.
func (s *Storage) DeleteSessions(ctx context.Context, ids []string) error {
	const op = "storage.sql.DeleteSessions"

	if err := s.await(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(ids) == 0 {
		return nil
	}

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	args := make([]any, 0, len(unique))
	for _, id := range unique {
		args = append(args, id)
	}

	query := s.ConvertQuery(fmt.Sprintf(`DELETE FROM %s WHERE %s IN (%s)`,
		s.table, keyColumn, placeholders(len(unique))))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return queryError(ctx, op, err)
	}

	return nil
}

func (s *Storage) FindSessionsByShop(ctx context.Context, shop string) ([]models.Session, error) {
	const op = "storage.sql.FindSessionsByShop"

	if err := s.await(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := s.ConvertQuery(fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`,
		columnList(), s.table, "shop"))

	sessions, err := s.query(ctx, query, shop)
	if err != nil {
		return nil, queryError(ctx, op, err)
	}

	return sessions, nil
}

// Disconnect closes the connection once initialization has settled. Later
// calls and other methods return storage.ErrClosed.
func (s *Storage) Disconnect(ctx context.Context) error {
	const op = "storage.sql.Disconnect"

	select {
	case <-s.ready:
	case <-ctx.Done():
		return fmt.Errorf("%s: context error: %w", op, ctx.Err())
	}

	if s.initErr != nil {
		return nil
	}

	if !s.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) await(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return s.Ready(ctx)
}

func (s *Storage) query(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var r row
		if err := rows.Scan(r.dests()...); err != nil {
			return nil, err
		}

		sessions = append(sessions, r.session())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func queryError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%s: timeout reached: %w (%v)", op, storage.ErrQuery, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%s: context canceled: %w (%v)", op, storage.ErrQuery, err)
	default:
		return fmt.Errorf("%s: %w (%s)", op, storage.ErrQuery, driverDetail(err))
	}
}

func driverDetail(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf("%s: %s", pqErr.Code.Name(), pqErr.Message)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return fmt.Sprintf("sqliteError %d: %v", sqliteErr.ExtendedCode, err)
	}

	return err.Error()
}
