// Package customer реализует реестр клиентов: аутентификацию, создание
// аккаунта после покупки, апгрейд пакета и upsert из платежного вебхука.
// Поверх хранилища работает кеш чтения, события жизненного цикла уходят
// в брокер без гарантий доставки.
package customer

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rizzosai/domain-backoffice/internal/catalog"
	"github.com/rizzosai/domain-backoffice/internal/lib/password"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/storage"
)

// Роли сессии.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const cacheTTL = 10 * time.Minute

var (
	// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAlreadyExists возвращается при попытке занять существующий email.
	ErrAlreadyExists = errors.New("customer already exists")
	// ErrNotHigherLevel возвращается, когда целевой пакет не выше текущего.
	ErrNotHigherLevel = errors.New("target package level is not higher than current")
	// ErrUnknownPackage возвращается для идентификатора вне каталога.
	ErrUnknownPackage = errors.New("unknown package id")
)

// События жизненного цикла клиента.
const (
	EventCustomerCreated  = "customer.created"
	EventCustomerUpgraded = "customer.upgraded"
)

// Repository описывает контракт хранилища реестра клиентов.
type Repository interface {
	// GetCustomer возвращает запись либо storage.ErrNotFound.
	GetCustomer(ctx context.Context, email string) (*models.Customer, error)
	// SaveCustomer записывает запись, затирая предыдущую.
	SaveCustomer(ctx context.Context, customer models.Customer) error
}

// Cache описывает кеш чтения записей клиентов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Events описывает публикацию событий жизненного цикла.
type Events interface {
	Publish(routingKey string, message any) error
}

// LifecycleEvent — полезная нагрузка события customer.created / customer.upgraded.
type LifecycleEvent struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Package   string `json:"package"`
	Timestamp string `json:"timestamp"`
}

// Identity — результат успешной аутентификации, ложится в сессию.
type Identity struct {
	UserID   string
	Username string
	Role     string
	Package  string
}

// Service реализует операции реестра клиентов.
// Cache и Events могут быть nil: кеш и брокер необязательны.
type Service struct {
	repo          Repository
	cache         Cache
	events        Events
	adminUsername string
	adminPassword string
	log           *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, events Events, adminUsername, adminPassword string, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		cache:         cache,
		events:        events,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		log:           log,
	}
}

// Authenticate проверяет пару логин/пароль. Администратор сверяется с
// учетными данными из конфигурации, клиенты — с записью реестра.
func (s *Service) Authenticate(ctx context.Context, login, pass string) (*Identity, error) {
	const op = "customer.Authenticate"

	if subtle.ConstantTimeCompare([]byte(login), []byte(s.adminUsername)) == 1 &&
		subtle.ConstantTimeCompare([]byte(pass), []byte(s.adminPassword)) == 1 {
		return &Identity{
			UserID:   s.adminUsername,
			Username: s.adminUsername,
			Role:     RoleAdmin,
			Package:  "empire",
		}, nil
	}

	record, err := s.Get(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Verify(record.Password, pass); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		UserID:   record.Email,
		Username: record.Username,
		Role:     RoleCustomer,
		Package:  record.Package,
	}, nil
}

// Get возвращает запись клиента, при наличии кеша — через кеш чтения.
func (s *Service) Get(ctx context.Context, email string) (*models.Customer, error) {
	const op = "customer.Get"

	key := cacheKey(email)
	if s.cache != nil {
		var cached models.Customer
		found, err := s.cache.Get(key, &cached)
		if err != nil {
			s.log.Warn("customer cache read failed", slog.String("op", op), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	record, err := s.repo.GetCustomer(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(key, record, cacheTTL); err != nil {
			s.log.Warn("customer cache write failed", slog.String("op", op), sl.Err(err))
		}
	}
	return record, nil
}

// SetupAccount создает запись клиента после покупки. Пароль хешируется,
// занятый email — ошибка ErrAlreadyExists.
func (s *Service) SetupAccount(ctx context.Context, email, username, pass, packageID, sessionID string) (*models.Customer, error) {
	const op = "customer.SetupAccount"

	if _, ok := catalog.Packages[packageID]; !ok {
		return nil, ErrUnknownPackage
	}

	if _, err := s.repo.GetCustomer(ctx, email); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(pass)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record := models.Customer{
		Email:     email,
		Username:  username,
		Password:  hash,
		Package:   packageID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		SessionID: sessionID,
	}
	if err := s.save(ctx, record); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(EventCustomerCreated, record)
	return &record, nil
}

// Upgrade переводит клиента на пакет строго более высокого уровня.
func (s *Service) Upgrade(ctx context.Context, email, packageID string) (*models.Customer, error) {
	const op = "customer.Upgrade"

	target, ok := catalog.Packages[packageID]
	if !ok {
		return nil, ErrUnknownPackage
	}

	record, err := s.repo.GetCustomer(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current := catalog.Get(record.Package)
	if target.Level <= current.Level {
		return nil, ErrNotHigherLevel
	}

	record.Package = packageID
	record.UpgradedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.save(ctx, *record); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(EventCustomerUpgraded, *record)
	return record, nil
}

// UpsertFromWebhook обрабатывает уведомление платежного провайдера:
// существующий клиент получает новый пакет, новый — заготовку записи
// без пароля, который он задаст на setup-account.
func (s *Service) UpsertFromWebhook(ctx context.Context, email, packageID string) (*models.Customer, error) {
	const op = "customer.UpsertFromWebhook"

	if _, ok := catalog.Packages[packageID]; !ok {
		return nil, ErrUnknownPackage
	}

	record, err := s.repo.GetCustomer(ctx, email)
	switch {
	case err == nil:
		record.Package = packageID
		record.UpgradedAt = time.Now().UTC().Format(time.RFC3339)
		if err := s.save(ctx, *record); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.publish(EventCustomerUpgraded, *record)
		return record, nil
	case errors.Is(err, storage.ErrNotFound):
		created := models.Customer{
			Email:     email,
			Username:  usernameFromEmail(email),
			Package:   packageID,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.save(ctx, created); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.publish(EventCustomerCreated, created)
		return &created, nil
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
}

// RecordGuideAccess увеличивает счетчик открытых гайдов.
func (s *Service) RecordGuideAccess(ctx context.Context, email string) {
	const op = "customer.RecordGuideAccess"

	record, err := s.repo.GetCustomer(ctx, email)
	if err != nil {
		return
	}
	record.GuidesAccessed++
	if err := s.save(ctx, *record); err != nil {
		s.log.Warn("failed to record guide access", slog.String("op", op), sl.Err(err))
	}
}

func (s *Service) save(ctx context.Context, record models.Customer) error {
	if err := s.repo.SaveCustomer(ctx, record); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(cacheKey(record.Email)); err != nil {
			s.log.Warn("customer cache invalidate failed", sl.Err(err))
		}
	}
	return nil
}

// publish отправляет событие без гарантий: отказ брокера логируется
// и не влияет на результат операции.
func (s *Service) publish(routingKey string, record models.Customer) {
	if s.events == nil {
		return
	}
	event := LifecycleEvent{
		Email:     record.Email,
		Username:  record.Username,
		Package:   record.Package,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Error("failed to publish lifecycle event",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}

func cacheKey(email string) string {
	return "customer:" + email
}

func usernameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
