// Package postgres реализует хранилище бэкофиса на основе PostgreSQL:
// реестр клиентов, список банов и память диалогов ассистента. Контракты
// совпадают с драйвером jsonfile, внешнее поведение идентично.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/storage"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(connectionString string) (*Storage, error) {
	const op = "postgres.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// ===== CUSTOMERS =====

// GetCustomer возвращает запись клиента по email.
func (s *Storage) GetCustomer(ctx context.Context, email string) (*models.Customer, error) {
	const op = "postgres.GetCustomer"

	query := `SELECT email, username, password, package, created_at,
			         COALESCE(upgraded_at, ''), COALESCE(session_id, ''), guides_accessed
			  FROM customers WHERE email = $1`
	row := s.DB.QueryRowContext(ctx, query, email)

	var c models.Customer
	if err := row.Scan(&c.Email, &c.Username, &c.Password, &c.Package,
		&c.CreatedAt, &c.UpgradedAt, &c.SessionID, &c.GuidesAccessed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// SaveCustomer вставляет или заменяет запись клиента (upsert по email).
func (s *Storage) SaveCustomer(ctx context.Context, c models.Customer) error {
	const op = "postgres.SaveCustomer"

	query := `INSERT INTO customers (email, username, password, package, created_at,
			      upgraded_at, session_id, guides_accessed)
			  VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
			  ON CONFLICT (email) DO UPDATE SET
			      username = EXCLUDED.username, password = EXCLUDED.password,
			      package = EXCLUDED.package, upgraded_at = EXCLUDED.upgraded_at,
			      session_id = EXCLUDED.session_id, guides_accessed = EXCLUDED.guides_accessed`
	_, err := s.DB.ExecContext(ctx, query,
		c.Email, c.Username, c.Password, c.Package, c.CreatedAt,
		c.UpgradedAt, c.SessionID, c.GuidesAccessed)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ===== BANS =====

// GetBan возвращает запись бана по идентификатору пользователя.
func (s *Storage) GetBan(ctx context.Context, userID string) (*models.BanRecord, error) {
	const op = "postgres.GetBan"

	query := `SELECT banned_at, expires_at, reason, ip FROM bans WHERE user_id = $1`
	row := s.DB.QueryRowContext(ctx, query, userID)

	var b models.BanRecord
	if err := row.Scan(&b.BannedAt, &b.ExpiresAt, &b.Reason, &b.IP); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

// PutBan записывает бан, затирая предыдущую запись для пользователя.
func (s *Storage) PutBan(ctx context.Context, userID string, record models.BanRecord) error {
	const op = "postgres.PutBan"

	query := `INSERT INTO bans (user_id, banned_at, expires_at, reason, ip)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_id) DO UPDATE SET
			      banned_at = EXCLUDED.banned_at, expires_at = EXCLUDED.expires_at,
			      reason = EXCLUDED.reason, ip = EXCLUDED.ip`
	_, err := s.DB.ExecContext(ctx, query,
		userID, record.BannedAt, record.ExpiresAt, record.Reason, record.IP)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteBan удаляет запись бана и сообщает, была ли она.
func (s *Storage) DeleteBan(ctx context.Context, userID string) (bool, error) {
	const op = "postgres.DeleteBan"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM bans WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// ListBans возвращает все записи банов.
func (s *Storage) ListBans(ctx context.Context) (map[string]models.BanRecord, error) {
	const op = "postgres.ListBans"

	rows, err := s.DB.QueryContext(ctx, `SELECT user_id, banned_at, expires_at, reason, ip FROM bans`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	bans := make(map[string]models.BanRecord)
	for rows.Next() {
		var userID string
		var b models.BanRecord
		if err := rows.Scan(&userID, &b.BannedAt, &b.ExpiresAt, &b.Reason, &b.IP); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		bans[userID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bans, nil
}

// ===== CHAT MEMORY =====

// ListExchanges возвращает историю обменов пользователя в хронологическом порядке.
func (s *Storage) ListExchanges(ctx context.Context, userID, conversationType string) ([]models.Exchange, error) {
	const op = "postgres.ListExchanges"

	query := `SELECT user_text, assistant_text, created_at FROM chat_exchanges
			  WHERE user_id = $1 AND conversation_type = $2
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID, conversationType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var exchanges []models.Exchange
	for rows.Next() {
		var ex models.Exchange
		var createdAt time.Time
		if err := rows.Scan(&ex.User, &ex.Assistant, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ex.Timestamp = createdAt.UTC().Format(time.RFC3339)
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return exchanges, nil
}

// AppendExchange дописывает обмен в конец истории пользователя.
func (s *Storage) AppendExchange(ctx context.Context, userID, conversationType string, exchange models.Exchange) error {
	const op = "postgres.AppendExchange"

	createdAt, err := time.Parse(time.RFC3339, exchange.Timestamp)
	if err != nil {
		createdAt = time.Now().UTC()
	}
	query := `INSERT INTO chat_exchanges (user_id, conversation_type, user_text, assistant_text, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		userID, conversationType, exchange.User, exchange.Assistant, createdAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TrimExchanges оставляет не более keep последних обменов, удаляя самые старые.
func (s *Storage) TrimExchanges(ctx context.Context, userID, conversationType string, keep int) error {
	const op = "postgres.TrimExchanges"

	query := `DELETE FROM chat_exchanges
			  WHERE user_id = $1 AND conversation_type = $2 AND id NOT IN (
			      SELECT id FROM chat_exchanges
			      WHERE user_id = $1 AND conversation_type = $2
			      ORDER BY id DESC LIMIT $3
			  )`
	if _, err := s.DB.ExecContext(ctx, query, userID, conversationType, keep); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
