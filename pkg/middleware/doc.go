// Package middleware はGinベースのHTTP APIで使用する認証ゲートウェイと共通ミドルウェアを提供する。
//
// トークンの発行・検証（TokenCodec）、Authorizationヘッダーからの
// トークン抽出と認証判定（Authenticate）、保護ルートに適用するJWTAuth、
// パニックリカバリ、CORS設定を含む。
package middleware
