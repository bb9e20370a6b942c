// Package dbtest はテスト用のインメモリSQLiteを用意する。
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// テストごとに別のDBを作ってマイグレーションまで済ませる
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	cfg := db.Options(true)
	gdb, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// 接続を1本にしてトランザクションを直列化する
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return gdb
}
