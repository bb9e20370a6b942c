package validator

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	ErrPasswordTooShort = errors.New("password too short")
	ErrWeakPassword     = errors.New("weak password")
)

const minPasswordLength = 8

var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// サインアップの入力を検証
func ValidateRegister(email string, password string, name string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}

	// email形式
	if !IsEmailLike(email) {
		return ErrInvalidInput
	}

	if utf8.RuneCountInString(name) > 255 {
		return ErrInvalidInput
	}

	// パスワード最低文字数
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if isWeakPassword(password) {
		return ErrWeakPassword
	}

	return nil
}

// ログインの入力を検証
func ValidateLogin(email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	// email形式
	if !IsEmailLike(email) {
		return ErrInvalidInput
	}

	return nil
}

// 簡易メール形式をチェック
func IsEmailLike(s string) bool {
	if !emailLike.MatchString(s) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// よくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwertyuiop":   {},
		"letmein1":     {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}
