package store

import (
	"context"
	"path/filepath"
	"testing"
)

// TestOpen はOpen関数を検証する。
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("インメモリDBにusersとvehiclesテーブルが作成されること", func(t *testing.T) {
		t.Parallel()

		db, err := Open(context.Background(), MemoryPath)
		if err != nil {
			t.Fatalf("Open()でエラーが発生: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		for _, table := range []string{"users", "vehicles", "schema_migrations"} {
			var name string
			if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
				t.Errorf("テーブル %s が作成されていない: %v", table, err)
			}
		}
	})

	t.Run("ファイルDBを再度開いてもマイグレーションが重複適用されないこと", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "vehicles.db")
		db, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("Open()でエラーが発生: %v", err)
		}
		_ = db.Close()

		db, err = Open(context.Background(), path)
		if err != nil {
			t.Fatalf("2回目のOpen()でエラーが発生: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("schema_migrationsの取得に失敗: %v", err)
		}
		if count != 2 {
			t.Errorf("適用済みバージョン数 = %d, want 2", count)
		}
	})

	t.Run("存在しないディレクトリのパスではエラーが返ること", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "dir", "vehicles.db")
		if _, err := Open(context.Background(), path); err == nil {
			t.Error("存在しないディレクトリでエラーが返るべき")
		}
	})
}
