// Package store はユーザーと車両を保持するSQLiteデータベースの接続を提供する。
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/nao1215/vehicles/pkg/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

// MemoryPath はインメモリデータベースを表すパス。
const MemoryPath = ":memory:"

// Open はSQLiteデータベースに接続し、マイグレーションを適用する。
// 接続できない場合はエラーを返す。呼び出し側は起動を中止すること。
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// インメモリDBは接続ごとに別のDBになるため、接続を1つに固定する。
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("データベースへの疎通確認に失敗: %w", err)
	}

	if _, err := migration.Run(ctx, db, migrations, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("マイグレーションに失敗: %w", err)
	}
	return db, nil
}
