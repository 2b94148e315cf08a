package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smallbiznis/pointsale/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestDialectNames(t *testing.T) {
	for _, typ := range []string{TypePostgres, TypeMySQL, TypeSQLite} {
		d, err := Dialect(Config{Type: typ, Path: ":memory:"})
		require.NoError(t, err)
		assert.NotEmpty(t, d.Name())
	}
}

func TestOpenSQLiteInMemory(t *testing.T) {
	conn, err := Open(Config{Type: TypeSQLite, Path: fmt.Sprintf("file:db_open_%d?mode=memory&cache=shared", 1), MaxOpenConn: 1})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("SELECT 1").Error)
}

func TestConfigFromConvertsDurations(t *testing.T) {
	cfg := ConfigFrom(config.Config{DBType: " SQLite ", DBConnMaxLifetime: 30, DBConnMaxIdleTime: 5})
	assert.Equal(t, TypeSQLite, cfg.Type)
	assert.Equal(t, "30s", cfg.ConnMaxLifetime.String())
	assert.Equal(t, "5s", cfg.ConnMaxIdleTime.String())
}

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "postgres", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "postgres other", err: &pgconn.PgError{Code: "40001"}, want: false},
		{name: "mysql", err: errors.New("Error 1062: Duplicate entry"), want: true},
		{name: "sqlite", err: errors.New("UNIQUE constraint failed: catalog_items.title_key"), want: true},
		{name: "other", err: errors.New("boom"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKeyErr(tc.err); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
