package validator

import (
	"regexp"
	"strings"

	"storefront/internal/usecase"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// bcrypt が扱えるのは72バイトまで
const maxPasswordBytes = 72

// サインアップの入力を検証（重複チェックはusecase側）
func ValidateRegister(email string, password string, name string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return usecase.NewError(usecase.KindValidation, "email, password, and name are required")
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.NewError(usecase.KindValidation, "invalid email format")
	}

	if len(password) > maxPasswordBytes {
		return usecase.NewError(usecase.KindValidation, "password must be at most 72 bytes")
	}

	return nil
}

// ログインの入力を検証
func ValidateLogin(email string, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return usecase.NewError(usecase.KindValidation, "email and password are required")
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailPattern.MatchString(s)
}
