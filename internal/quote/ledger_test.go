package quote

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glazeworks/window-storefront/pkg/config"
	"github.com/glazeworks/window-storefront/pkg/enums"
	"github.com/glazeworks/window-storefront/pkg/migrate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	dir := filepath.Join("..", "..", migrate.DefaultDir)
	require.NoError(t, migrate.Run(context.Background(), sqlDB, config.DriverSQLite, dir, "up"))
	return db
}

func TestRepositoryRecordAndList(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	older := &Export{CartID: "db-1", StorageType: enums.StorageDatabase, Link: "https://shop.example/?cart=a", CreatedAt: time.Now().Add(-time.Hour).UTC()}
	source := "session-1-x"
	newer := &Export{CartID: "db-1", StorageType: enums.StorageDatabase, Link: "https://shop.example/?cart=b", PromotedFrom: &source}
	other := &Export{CartID: "cart-2", StorageType: enums.StorageCookie, Link: "https://shop.example/?cart=c"}

	for _, e := range []*Export{older, newer, other} {
		require.NoError(t, repo.Record(ctx, e))
	}
	require.NotEqual(t, uuid.Nil, newer.ID)
	require.False(t, newer.CreatedAt.IsZero())

	rows, err := repo.ListByCart(ctx, "db-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, newer.Link, rows[0].Link)
	require.NotNil(t, rows[0].PromotedFrom)
	require.Equal(t, source, *rows[0].PromotedFrom)
	require.Equal(t, older.ID, rows[1].ID)
}

func TestRepositoryDeleteBefore(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := &Export{CartID: "cart-1", StorageType: enums.StorageCookie, Link: "a", CreatedAt: now.Add(-100 * 24 * time.Hour)}
	fresh := &Export{CartID: "cart-1", StorageType: enums.StorageCookie, Link: "b", CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Record(ctx, stale))
	require.NoError(t, repo.Record(ctx, fresh))

	deleted, err := repo.DeleteBefore(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	rows, err := repo.ListByCart(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, fresh.ID, rows[0].ID)
}

func TestRepositoryRejectsUnknownStorageType(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewRepository(db)

	err := repo.Record(context.Background(), &Export{CartID: "x", StorageType: "local", Link: "l"})
	require.Error(t, err)
}

func TestExporterWritesLedger(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewRepository(db)
	e := NewExporter(Options{PublicURL: "https://shop.example", WhatsAppPhone: "1"}, repo, nil)

	id := newCookieIdentity("cart-9-abc")
	q, err := e.Export(context.Background(), Input{Identity: id})
	require.NoError(t, err)

	rows, err := repo.ListByCart(context.Background(), "cart-9-abc")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, q.Link, rows[0].Link)
	require.Equal(t, enums.StorageCookie, rows[0].StorageType)
}
