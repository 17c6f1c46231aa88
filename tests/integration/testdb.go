//go:build integration

// Package integration runs the API against a real PostgreSQL started with
// testcontainers. Run with: go test -tags integration ./tests/integration/...
package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/migration"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pgServer is the one Postgres container shared by the whole package. It is
// started and migrated on first use and terminated from TestMain.
type pgServer struct {
	once      sync.Once
	container *tcpostgres.PostgresContainer
	dsn       string
	err       error
}

var pg pgServer

func (s *pgServer) start() (string, error) {
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		s.container, s.err = tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("sagebridge_test"),
			tcpostgres.WithUsername("sagebridge"),
			tcpostgres.WithPassword("sagebridge"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(time.Minute)),
		)
		if s.err != nil {
			s.err = fmt.Errorf("start postgres: %w", s.err)
			return
		}
		if s.dsn, s.err = s.container.ConnectionString(ctx, "sslmode=disable"); s.err != nil {
			return
		}
		s.err = migrateUp(s.dsn)
	})
	return s.dsn, s.err
}

func (s *pgServer) stop() {
	if s.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = s.container.Terminate(ctx)
}

func migrateUp(dsn string) error {
	db, err := open(dsn)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m, err := migration.New(sqlDB, migration.Source(""), zap.NewNop())
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}
	return m.Up()
}

func open(dsn string) (*gorm.DB, error) {
	gormLog := logger.Discard
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = logger.Default.LogMode(logger.Info)
	}
	return gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: gormLog, TranslateError: true})
}

// TestDB is a connection to the shared, migrated database
type TestDB struct {
	DB  *gorm.DB
	DSN string
}

// NewTestDB connects to the shared database and empties every table, so each
// test starts from a blank schema
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration tests need docker")
	}

	dsn, err := pg.start()
	require.NoError(t, err)
	db, err := open(dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = sqlDB.Close() })

	truncateAll(t, db)
	return &TestDB{DB: db, DSN: dsn}
}

func truncateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	var tables []string
	require.NoError(t, db.Raw(`SELECT quote_ident(tablename) FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'`).Scan(&tables).Error)
	if len(tables) == 0 {
		return
	}
	require.NoError(t, db.Exec("TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE").Error)
}
