// Package psqltest opens throwaway migrated databases for tests.
package psqltest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"

	"boardai/boardai/sources/psql"
)

// NewSQLite returns a migrated in-memory database private to t. A single
// connection serialises transactions the way row locks do on postgres.
func NewSQLite(t testing.TB) *psql.Database {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := psql.Open(context.Background(), sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(db.Close)
	return db
}
