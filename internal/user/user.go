// Package user はユーザーの登録と認証情報の照合を行うCredential Storeを提供する。
//
// パスワードはbcryptでハッシュ化してSQLiteに保存する。
// 平文のパスワードは照合の呼び出し以降に保持・ログ出力しない。
package user

import (
	"errors"
	"fmt"
)

// DefaultRole は登録時にロールが指定されなかった場合のロール。
const DefaultRole = "user"

// Credential Storeが返すエラー。
var (
	// ErrDuplicateIdentity は同じユーザー名が既に登録されていることを表す。
	ErrDuplicateIdentity = errors.New("ユーザー名は既に使用されています")
	// ErrPasswordMismatch は確認用パスワードが一致しないことを表す。
	ErrPasswordMismatch = errors.New("確認用パスワードが一致しません")
	// ErrInvalidCandidate は登録内容の形式が不正であることを表す。
	ErrInvalidCandidate = errors.New("登録内容が不正です")
	// ErrInvalidCredentials はユーザー名とパスワードの組が照合できないことを表す。
	ErrInvalidCredentials = errors.New("認証情報が正しくありません")
	// ErrUnknownUser はユーザーが見つからないことを表す。
	ErrUnknownUser = fmt.Errorf("%w: ユーザーが見つかりません", ErrInvalidCredentials)
	// ErrIncorrectPassword はパスワードが一致しないことを表す。
	ErrIncorrectPassword = fmt.Errorf("%w: パスワードが一致しません", ErrInvalidCredentials)
)

// Identity は登録済みユーザーの属性。
// 登録または照合に成功した場合にのみ生成される。
type Identity struct {
	// ID はユーザーの一意識別子（UUID）。
	ID string `json:"_id"`
	// UserName はログイン名。
	UserName string `json:"userName"`
	// FullName は表示用の氏名。
	FullName string `json:"fullName"`
	// Role はユーザーのロール。
	Role string `json:"role"`
}

// Candidate はユーザー登録の入力。
type Candidate struct {
	// UserName はログイン名。
	UserName string `json:"userName"`
	// Password はパスワード。
	Password string `json:"password"`
	// Password2 は確認用パスワード。空の場合は確認しない。
	Password2 string `json:"password2"`
	// FullName は表示用の氏名。
	FullName string `json:"fullName"`
	// Role はユーザーのロール。空の場合はDefaultRole。
	Role string `json:"role"`
}

// Credential はログインの入力。
type Credential struct {
	// UserName はログイン名。
	UserName string `json:"userName"`
	// Password はパスワード。
	Password string `json:"password"`
}
