// Package gateway は車両APIのHTTPサーバーを提供する。
//
// ユーザー登録とログインで署名付きトークンを発行し、保護された
// 車両一覧へのリクエストはJWTAuthミドルウェアでトークンを検証してから
// ハンドラに渡す。外部からアクセス可能な唯一のサービスであり、
// セキュリティの境界線として機能する。
package gateway
