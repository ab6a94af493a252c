// Package auth は信頼を生成する2つの遷移（ユーザー登録とログイン）を提供する。
//
// 新しいトークンを発行するのはLoginだけであり、Credential Storeで
// 照合済みのIdentityからのみクレームを生成する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nao1215/vehicles/internal/user"
	"github.com/nao1215/vehicles/pkg/middleware"
)

// CredentialStore はユーザーの登録と照合を行う。
type CredentialStore interface {
	Create(ctx context.Context, c user.Candidate) (*user.Identity, error)
	Verify(ctx context.Context, userName, password string) (*user.Identity, error)
}

// TokenIssuer はクレームに署名したトークンを発行する。
type TokenIssuer interface {
	Issue(claims middleware.Claims) (string, error)
}

// Recorder は登録・ログインの結果を記録する。
type Recorder interface {
	IncLogin(status string)
	IncRegistration(status string)
}

// 登録・ログイン結果のラベル。
const (
	StatusSuccess   = "success"
	StatusDuplicate = "duplicate"
	StatusInvalid   = "invalid"
	StatusError     = "error"
)

// Error は登録・ログインの失敗。Messageはクライアントにそのまま返してよい文言。
type Error struct {
	// Message はクライアント向けのメッセージ。
	Message string
	// Err は原因となったエラー。
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Service はユーザー登録とログインを行う。
type Service struct {
	users    CredentialStore
	issuer   TokenIssuer
	recorder Recorder
}

// NewService は新しいServiceを生成する。
func NewService(users CredentialStore, issuer TokenIssuer, recorder Recorder) *Service {
	return &Service{
		users:    users,
		issuer:   issuer,
		recorder: recorder,
	}
}

// Register はユーザーを登録し、成功メッセージを返す。
// 失敗時は*Errorを返し、Credential Storeにはレコードを作成しない。
func (s *Service) Register(ctx context.Context, c user.Candidate) (string, error) {
	identity, err := s.users.Create(ctx, c)
	if err != nil {
		var msg, status string
		switch {
		case errors.Is(err, user.ErrDuplicateIdentity):
			msg, status = "User Name already taken", StatusDuplicate
		case errors.Is(err, user.ErrPasswordMismatch):
			msg, status = "Passwords do not match", StatusInvalid
		case errors.Is(err, user.ErrInvalidCandidate):
			msg, status = "Invalid registration data", StatusInvalid
		default:
			log.Printf("[Auth] ユーザー登録エラー: %v", err)
			msg, status = "There was an error creating the user", StatusError
		}
		s.recorder.IncRegistration(status)
		return "", &Error{Message: msg, Err: err}
	}

	s.recorder.IncRegistration(StatusSuccess)
	return fmt.Sprintf("User %s successfully registered", identity.UserName), nil
}

// Login は認証情報を照合し、Identityと新しく発行したトークンを返す。
func (s *Service) Login(ctx context.Context, cred user.Credential) (*user.Identity, string, error) {
	identity, err := s.users.Verify(ctx, cred.UserName, cred.Password)
	if err != nil {
		var msg, status string
		switch {
		case errors.Is(err, user.ErrUnknownUser):
			msg, status = "Unable to find user: "+cred.UserName, StatusInvalid
		case errors.Is(err, user.ErrIncorrectPassword):
			msg, status = "Incorrect password for user: "+cred.UserName, StatusInvalid
		default:
			log.Printf("[Auth] ユーザー照合エラー: %v", err)
			msg, status = "There was an error verifying the user", StatusError
		}
		s.recorder.IncLogin(status)
		return nil, "", &Error{Message: msg, Err: err}
	}

	token, err := s.issuer.Issue(ClaimsFor(identity))
	if err != nil {
		log.Printf("[Auth] トークン発行エラー: %v", err)
		s.recorder.IncLogin(StatusError)
		return nil, "", &Error{Message: "There was an error issuing the token", Err: err}
	}

	s.recorder.IncLogin(StatusSuccess)
	return identity, token, nil
}

// ClaimsFor は照合済みのIdentityからトークンに埋め込むクレームを生成する。
func ClaimsFor(identity *user.Identity) middleware.Claims {
	return middleware.Claims{
		UserID:   identity.ID,
		UserName: identity.UserName,
		FullName: identity.FullName,
		Role:     identity.Role,
	}
}
