package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthScheme はAuthorizationヘッダーで要求するスキーム名。
// "Authorization: jwt <token>" の形式でトークンを受け取る。
const AuthScheme = "jwt"

// 認証ゲートウェイが返すエラー。クライアントには区別せず401として返す。
var (
	// ErrMissingCredential はトークンが提示されなかったことを表す。
	ErrMissingCredential = errors.New("認証情報がありません")
	// ErrInvalidToken はトークンの形式・署名・有効期限のいずれかが不正であることを表す。
	ErrInvalidToken = errors.New("トークンが無効です")
	// ErrEmptyCredential は検証済みトークンに利用可能なクレームが無いことを表す。
	ErrEmptyCredential = errors.New("トークンにクレームがありません")
	// ErrEmptySecret は署名鍵が空であることを表す。
	ErrEmptySecret = errors.New("署名鍵が空です")
)

const (
	// contextKeyClaims はGinコンテキストにクレームを格納するキー。
	contextKeyClaims = "claims"
	// contextKeyUserID はGinコンテキストにユーザーIDを格納するキー。
	contextKeyUserID = "user_id"
)

// Claims はトークンに埋め込むユーザー属性。
// 必ずCredential Storeで検証済みのIdentityから生成すること。
type Claims struct {
	jwt.RegisteredClaims
	// UserID はユーザーの一意識別子。
	UserID string `json:"_id"`
	// UserName はログイン名。
	UserName string `json:"userName"`
	// FullName は表示用の氏名。
	FullName string `json:"fullName"`
	// Role はユーザーのロール。
	Role string `json:"role"`
}

// identity は登録済みクレームを除いた4項目だけを持つコピーを返す。
func (c *Claims) identity() *Claims {
	return &Claims{
		UserID:   c.UserID,
		UserName: c.UserName,
		FullName: c.FullName,
		Role:     c.Role,
	}
}

// TokenVerifier はトークン文字列を検証してクレームを返す。
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// TokenCodec はHS256でトークンの発行と検証を行う。
// 状態を持たず、署名鍵は生成後に変更されない。
type TokenCodec struct {
	secret []byte
	// ttl が0の場合はexpクレームを付与しない。
	ttl time.Duration
	now func() time.Time
}

// NewTokenCodec は署名鍵と有効期間からTokenCodecを生成する。
// 空の署名鍵は常に有効なトークンを生むため受け付けない。
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue はクレームに署名してトークン文字列を返す。
// ttlが設定されている場合のみiat/expを付与する。
func (tc *TokenCodec) Issue(claims Claims) (string, error) {
	payload := claims.identity()
	if tc.ttl > 0 {
		now := tc.now()
		payload.IssuedAt = jwt.NewNumericDate(now)
		payload.ExpiresAt = jwt.NewNumericDate(now.Add(tc.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名を検証し、埋め込まれたクレームを返す。
// expが含まれていれば有効期限も検証する。それ以外の検証は行わない。
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractToken はAuthorizationヘッダーから "jwt <token>" 形式のトークンを取り出す。
// スキーム名は大文字小文字を区別しない。
func ExtractToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthScheme) {
		return "", false
	}
	return parts[1], true
}

// Authenticate はリクエストのトークンを検証し、認証済みクレームを返す。
//
// 検証に成功したクレームはCredential Storeに再照会せずそのまま信頼する。
// ステートレス検証を選んだ結果であり、発行後のロール変更などは
// 新しいトークンが発行されるまで反映されない。
func Authenticate(r *http.Request, v TokenVerifier) (*Claims, error) {
	tokenString, ok := ExtractToken(r)
	if !ok {
		return nil, ErrMissingCredential
	}

	claims, err := v.Verify(tokenString)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims == nil || claims.UserID == "" {
		return nil, ErrEmptyCredential
	}
	return claims.identity(), nil
}

// AuthObserver は認証判定の結果を受け取る。
type AuthObserver interface {
	ObserveAuth(result string)
}

// 認証判定結果のラベル。
const (
	AuthResultAuthenticated     = "authenticated"
	AuthResultMissingCredential = "missing_credential"
	AuthResultInvalidCredential = "invalid_credential"
	AuthResultEmptyCredential   = "empty_credential"
)

// rejectionResult はエラーを認証判定結果のラベルに変換する。
func rejectionResult(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return AuthResultMissingCredential
	case errors.Is(err, ErrEmptyCredential):
		return AuthResultEmptyCredential
	default:
		return AuthResultInvalidCredential
	}
}

// JWTAuth はトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストにクレームとユーザーIDを設定する。
// 失敗理由にかかわらず同じ401レスポンスを返し、後続のハンドラは実行しない。
// observerはnilでもよい。
func JWTAuth(v TokenVerifier, observer AuthObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := Authenticate(c.Request, v)
		if err != nil {
			result := rejectionResult(err)
			if observer != nil {
				observer.ObserveAuth(result)
			}
			log.Printf("[Auth] 認証を拒否: %s %s: %s", c.Request.Method, c.Request.URL.Path, result)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized",
			})
			return
		}

		if observer != nil {
			observer.ObserveAuth(AuthResultAuthenticated)
		}
		c.Set(contextKeyClaims, claims)
		c.Set(contextKeyUserID, claims.UserID)
		c.Next()
	}
}

// GetClaims はGinコンテキストから認証済みクレームを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(contextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get(contextKeyUserID)
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
