//go:build integration

package storage_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/okian/trackmeet/internal/adapters/storage"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	const (
		dbName   = "trackmeet"
		user     = "trackmeet"
		password = "trackmeet"
	)

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName)
			}).WithStartupTimeout(45*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := storage.Open(ctx, storage.BackendPostgres, storage.WithDSN(dsn))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, storage.KeyAthletes)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeyAthletes, `[{"id":"a"}]`))
	require.NoError(t, s.Set(ctx, storage.KeyAthletes, `[{"id":"b"}]`))
	v, err := s.Get(ctx, storage.KeyAthletes)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"b"}]`, v)

	require.NoError(t, s.Set(ctx, storage.KeyTeams, `[]`))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{storage.KeyAthletes, storage.KeyTeams}, keys)

	require.NoError(t, s.MultiRemove(ctx, storage.KeyAthletes, storage.KeyEventResults))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{storage.KeyTeams}, keys)

	// Reopening runs migrations again without error.
	again, err := storage.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
