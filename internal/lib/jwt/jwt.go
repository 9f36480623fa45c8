// Package jwt реализует генерацию и парсинг токенов cookie-сессии.
//
// Maker определяет интерфейс для создания и проверки токенов с данными
// сессии: идентификатор пользователя, роль и текущий пакет.
// MakerImpl — конкретная реализация с использованием секретного ключа и TTL.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов сессии.
type Maker interface {
	// GenerateToken создает токен с идентификатором пользователя, именем, ролью и пакетом.
	GenerateToken(userID, username, role, packageID string) (string, error)
	// ParseToken возвращает *SessionClaims, если токен корректен.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
