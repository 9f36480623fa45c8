package models

import "time"

// BanRecord описывает действующий бан чата для пользователя.
//
// Пользователь считается забаненным, пока текущее время меньше ExpiresAt;
// просроченная запись удаляется при первой же проверке.
type BanRecord struct {
	BannedAt  time.Time `json:"banned_at"`  // Момент наложения бана
	ExpiresAt time.Time `json:"expires_at"` // BannedAt + 24 часа
	Reason    string    `json:"reason"`     // Свободный текст, выводится админу
	IP        string    `json:"ip"`         // Адрес, с которого пришло сообщение
}

// Active сообщает, действует ли бан в момент now.
func (b BanRecord) Active(now time.Time) bool {
	return now.Before(b.ExpiresAt)
}
