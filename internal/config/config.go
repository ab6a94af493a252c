// Package config はプロセス起動時に環境変数から読み込む設定を提供する。
//
// 設定は main で一度だけ読み込み、ポインタで各コンポーネントに渡す。
// リクエスト処理中に環境変数を参照してはならない。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrMissingSecret は署名鍵が設定されていないことを表す。起動時の致命的エラーとして扱う。
var ErrMissingSecret = errors.New("署名鍵（SECRET_OR_KEY）が設定されていません")

// Config はAPIサーバーの設定。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// JWTSecret はトークン署名用の秘密鍵。空は許可しない。
	JWTSecret string
	// TokenTTL はトークンの有効期間。0の場合はexpクレームを付与しない。
	TokenTTL time.Duration
	// DBPath はSQLiteデータベースのパス。
	DBPath string
	// AllowedOrigins はCORSで許可するオリジン。"*" は全許可。
	AllowedOrigins []string
	// VehiclesURL は車両一覧を提供する上流サービスのURL。空の場合はローカルDBを使う。
	VehiclesURL string
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	return load(os.Getenv)
}

// load はgetenvで与えられた参照関数から設定を読み込む。
func load(getenv func(string) string) (*Config, error) {
	secret := getenv("SECRET_OR_KEY")
	if secret == "" {
		secret = getenv("JWT_SECRET")
	}
	if secret == "" {
		return nil, ErrMissingSecret
	}

	var ttl time.Duration
	if v := getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTLの解析に失敗: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("TOKEN_TTLは0以上である必要があります: %s", v)
		}
		ttl = d
	}

	return &Config{
		Port:           getEnvOr(getenv, "PORT", "8080"),
		JWTSecret:      secret,
		TokenTTL:       ttl,
		DBPath:         getEnvOr(getenv, "DB_PATH", "/data/vehicles.db"),
		AllowedOrigins: splitList(getEnvOr(getenv, "CORS_ALLOWED_ORIGINS", "*")),
		VehiclesURL:    strings.TrimRight(getenv("VEHICLES_URL"), "/"),
	}, nil
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(getenv func(string) string, key, defaultValue string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// splitList はカンマ区切りの文字列を空要素を除いて分割する。
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
