package vehicle

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// seedFile はシードファイルの構造。
type seedFile struct {
	Vehicles []Vehicle `yaml:"vehicles"`
}

// SQLiteStore はSQLiteのvehiclesテーブルから一覧を返す。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore は新しいSQLiteStoreを生成する。
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// List はID順に全車両を返す。
func (s *SQLiteStore) List(ctx context.Context) ([]Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, year, make, model, vin FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	vehicles := []Vehicle{}
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Year, &v.Make, &v.Model, &v.VIN); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return vehicles, nil
}

// Seed はYAMLの車両データを投入し、投入した件数を返す。
// テーブルに既にデータがある場合は何もしない。
func (s *SQLiteStore) Seed(ctx context.Context, data []byte) (int, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("シードデータの解析に失敗: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("車両件数の取得に失敗: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	for _, v := range f.Vehicles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vehicles (id, year, make, model, vin) VALUES (?, ?, ?, ?, ?)`,
			v.ID, v.Year, v.Make, v.Model, v.VIN,
		); err != nil {
			return 0, fmt.Errorf("車両 %d の投入に失敗: %w", v.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("コミットに失敗: %w", err)
	}
	return len(f.Vehicles), nil
}

// SeedDefault は組み込みの車両データを投入する。
func (s *SQLiteStore) SeedDefault(ctx context.Context) (int, error) {
	return s.Seed(ctx, defaultSeed)
}
