package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/trackmeet/internal/adapters/storage/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

type kvEntry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Postgres stores keys in the kv_entries table.
type Postgres struct {
	db *bun.DB
}

// NewPostgres connects to dsn and applies pending migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck,gosec // already failing
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrateUp(ctx, db); err != nil {
		db.Close() //nolint:errcheck,gosec // already failing
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func migrateUp(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (v string, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "get", start, err) }(time.Now())
	var e kvEntry
	err = p.db.NewSelect().Model(&e).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return e.Value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) (err error) {
	defer func(start time.Time) { observe(BackendPostgres, "set", start, err) }(time.Now())
	if key == "" {
		return ErrInvalidKey
	}
	e := &kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err = p.db.NewInsert().
		Model(e).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { observe(BackendPostgres, "remove", start, err) }(time.Now())
	if _, err = p.db.NewDelete().Model((*kvEntry)(nil)).Where("key = ?", key).Exec(ctx); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// MultiRemove deletes keys in one statement.
func (p *Postgres) MultiRemove(ctx context.Context, keys ...string) (err error) {
	defer func(start time.Time) { observe(BackendPostgres, "multi_remove", start, err) }(time.Now())
	if len(keys) == 0 {
		return nil
	}
	if _, err = p.db.NewDelete().Model((*kvEntry)(nil)).Where("key IN (?)", bun.In(keys)).Exec(ctx); err != nil {
		return fmt.Errorf("remove %d keys: %w", len(keys), err)
	}
	return nil
}

func (p *Postgres) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := p.db.NewSelect().Model((*kvEntry)(nil)).Column("key").Order("key ASC").Scan(ctx, &keys)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
