package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testConn   *sqlx.DB
	testDBOnce sync.Once
)

// TestDB starts a disposable Postgres container once per test binary, applies
// the schema, and hands back the shared connection. The container and the
// connection are torn down when the first calling test finishes, so repository
// suites share a single top-level test function with subtests.
func TestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	testDBOnce.Do(func() {
		ctx := context.Background()

		container, err := postgres.RunContainer(ctx,
			testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
			postgres.WithDatabase("gatepass"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(5*time.Second)),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = container.Terminate(context.Background())
		})

		connStr, err := container.ConnectionString(ctx, "sslmode=disable", "application_name=test")
		require.NoError(t, err)

		conn, err := sqlx.Connect("postgres", connStr)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = conn.Close()
		})

		require.NoError(t, InitializeDatabaseSchema(conn))
		testConn = conn
	})

	return testConn
}
