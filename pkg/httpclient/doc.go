// Package httpclient は上流サービスとのHTTP通信を行うクライアントを提供する。
//
// 車両一覧を外部サービスから取得する構成で使用する。
package httpclient
