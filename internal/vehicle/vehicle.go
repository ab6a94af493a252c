// Package vehicle は認証済みユーザーに公開する車両一覧のストアを提供する。
//
// ローカルのSQLiteから読み出すSQLiteStoreと、上流サービスから取得する
// RemoteStoreがある。どちらも取得失敗をErrUpstreamUnavailableとして返す。
package vehicle

import (
	"context"
	"errors"
)

// ErrUpstreamUnavailable は車両ストアから一覧を取得できなかったことを表す。
var ErrUpstreamUnavailable = errors.New("車両ストアに接続できません")

// Vehicle は車両1台の情報。
type Vehicle struct {
	// ID は車両の一意識別子。
	ID int64 `json:"id" yaml:"id"`
	// Year は年式。
	Year int `json:"year" yaml:"year"`
	// Make はメーカー。
	Make string `json:"make" yaml:"make"`
	// Model はモデル名。
	Model string `json:"model" yaml:"model"`
	// VIN は車台番号。
	VIN string `json:"vin" yaml:"vin"`
}

// Lister は車両一覧を返す。
type Lister interface {
	List(ctx context.Context) ([]Vehicle, error)
}
