package user

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// userNamePattern はログイン名に使用できる文字。
var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9._@-]+$`)

// normalize は前後の空白を除き、未指定のロールにデフォルト値を設定する。
func (c Candidate) normalize() Candidate {
	c.UserName = strings.TrimSpace(c.UserName)
	c.FullName = strings.TrimSpace(c.FullName)
	c.Role = strings.TrimSpace(c.Role)
	if c.Role == "" {
		c.Role = DefaultRole
	}
	return c
}

// Validate は登録内容を検証する。
// 確認用パスワードの不一致はErrPasswordMismatch、それ以外はErrInvalidCandidateを返す。
func (c Candidate) Validate() error {
	if c.Password2 != "" && c.Password2 != c.Password {
		return ErrPasswordMismatch
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.UserName,
			validation.Required,
			validation.Length(1, 64),
			validation.Match(userNamePattern),
		),
		// bcryptは72バイトを超える入力を扱えない
		validation.Field(&c.Password, validation.Required, validation.By(maxBytes(72))),
		validation.Field(&c.FullName, validation.Length(0, 200)),
		validation.Field(&c.Role, validation.Length(0, 32)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	}
	return nil
}

// maxBytes は文字列のバイト長の上限を検証するルールを返す。
func maxBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return fmt.Errorf("the length must be no more than %d bytes", limit)
		}
		return nil
	}
}
