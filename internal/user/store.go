package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store はSQLiteに保存したユーザーを扱うCredential Store。
// 同時実行の安全性はデータベースに委ねる。
type Store struct {
	db *sql.DB
	// hashCost はbcryptのコスト。
	hashCost int
	// newID はユーザーIDを生成する。
	newID func() string
}

// Option はStoreの設定を変更する。
type Option func(*Store)

// WithHashCost はbcryptのコストを指定する。
func WithHashCost(cost int) Option {
	return func(s *Store) {
		s.hashCost = cost
	}
}

// NewStore は新しいStoreを生成する。
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:       db,
		hashCost: bcrypt.DefaultCost,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create はユーザーを1件登録し、生成したIdentityを返す。
// 失敗した場合はレコードを作成しない。
func (s *Store) Create(ctx context.Context, c Candidate) (*Identity, error) {
	c = c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}

	identity := &Identity{
		ID:       s.newID(),
		UserName: c.UserName,
		FullName: c.FullName,
		Role:     c.Role,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, user_name, password_hash, full_name, role) VALUES (?, ?, ?, ?, ?)`,
		identity.ID, identity.UserName, string(hash), identity.FullName, identity.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗: %w", err)
	}
	return identity, nil
}

// Verify はユーザー名とパスワードを照合し、一致した場合にIdentityを返す。
func (s *Store) Verify(ctx context.Context, userName, password string) (*Identity, error) {
	var (
		identity Identity
		hash     string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_name, password_hash, full_name, role FROM users WHERE user_name = ?`,
		userName,
	).Scan(&identity.ID, &identity.UserName, &hash, &identity.FullName, &identity.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrIncorrectPassword
		}
		return nil, fmt.Errorf("パスワードの照合に失敗: %w", err)
	}
	return &identity, nil
}

// isUniqueViolation はSQLiteの一意制約違反かどうかを返す。
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
