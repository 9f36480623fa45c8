// Package password реализует функции для хеширования и проверки паролей.
//
// GetHash создает bcrypt-хеш пароля для хранения.
// Verify сравнивает сохраненное значение с введённым паролем. Старые записи
// клиентов хранят пароль открытым текстом; такие значения сравниваются
// побайтово, чтобы не ломать вход существующим пользователям. Все новые
// записи сохраняются только в виде bcrypt-хеша.
package password

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// IsHashed сообщает, является ли сохраненное значение bcrypt-хешем.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// Verify сравнивает сохраненное значение пароля с введённым.
//
// Возвращает nil при совпадении, иначе — ошибку.
func Verify(stored, externalPassword string) error {
	const op = "password.Verify"
	if IsHashed(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(externalPassword)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	// Унаследованная запись с открытым паролем.
	if subtle.ConstantTimeCompare([]byte(stored), []byte(externalPassword)) != 1 {
		return fmt.Errorf("%s: password mismatch", op)
	}
	return nil
}
