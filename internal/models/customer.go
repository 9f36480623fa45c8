// Package models содержит доменные структуры бэкофиса: запись клиента,
// запись бана и обмен репликами в памяти ассистента. Структуры используются
// в бизнес‑логике и при работе с хранилищем; json-теги соответствуют
// схеме файлов customers.json, banned_users.json и chat_memory.json.
package models

// Customer представляет запись клиента в реестре.
//
// Реестр ключуется по email; поле Email дублирует ключ в самой записи,
// чтобы документ оставался самодостаточным при выгрузке целиком.
type Customer struct {
	Email          string `json:"email"`                     // Электронная почта (канонический идентификатор)
	Username       string `json:"username"`                  // Отображаемое имя
	Password       string `json:"password"`                  // bcrypt-хеш; старые записи — открытый текст
	Package        string `json:"package"`                   // Идентификатор пакета из каталога
	CreatedAt      string `json:"created_at"`                // RFC3339
	UpgradedAt     string `json:"upgraded_at,omitempty"`     // RFC3339, заполняется при апгрейде
	SessionID      string `json:"session_id,omitempty"`      // Идентификатор платежной сессии
	GuidesAccessed int    `json:"guides_accessed,omitempty"` // Счетчик открытых гайдов на триале
}
