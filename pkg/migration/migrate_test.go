package migration

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

// newTestDB はテスト用のインメモリSQLiteを生成する。
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("インメモリDB接続に失敗: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestRun はマイグレーションの適用を検証する。
func TestRun(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"migrations/000002_add_items.up.sql":      {Data: []byte("CREATE TABLE items (id TEXT PRIMARY KEY);")},
		"migrations/000001_create_users.up.sql":   {Data: []byte("CREATE TABLE users (id TEXT PRIMARY KEY);")},
		"migrations/000001_create_users.down.sql": {Data: []byte("DROP TABLE users;")},
		"migrations/README.md":                    {Data: []byte("ignored")},
		"migrations/invalid.up.sql":               {Data: []byte("ignored")},
	}

	t.Run("バージョン順に適用され再実行では何も適用されないこと", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := newTestDB(t)

		n, err := Run(ctx, db, fsys, "migrations")
		if err != nil {
			t.Fatalf("Run()でエラーが発生: %v", err)
		}
		if n != 2 {
			t.Errorf("適用件数 = %d, want 2", n)
		}

		for _, table := range []string{"users", "items"} {
			var name string
			if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
				t.Errorf("テーブル %s が作成されていない: %v", table, err)
			}
		}

		n, err = Run(ctx, db, fsys, "migrations")
		if err != nil {
			t.Fatalf("2回目のRun()でエラーが発生: %v", err)
		}
		if n != 0 {
			t.Errorf("2回目の適用件数 = %d, want 0", n)
		}
	})

	t.Run("SQLが不正な場合はエラーが返りバージョンが記録されないこと", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := newTestDB(t)
		broken := fstest.MapFS{
			"migrations/000001_broken.up.sql": {Data: []byte("CREATE TABLE;")},
		}

		if _, err := Run(ctx, db, broken, "migrations"); err == nil {
			t.Fatal("不正なSQLでエラーが返るべき")
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("schema_migrationsの取得に失敗: %v", err)
		}
		if count != 0 {
			t.Errorf("記録されたバージョン数 = %d, want 0", count)
		}
	})

	t.Run("ディレクトリが存在しない場合はエラーが返ること", func(t *testing.T) {
		t.Parallel()

		if _, err := Run(context.Background(), newTestDB(t), fstest.MapFS{}, "missing"); err == nil {
			t.Error("存在しないディレクトリでエラーが返るべき")
		}
	})
}
