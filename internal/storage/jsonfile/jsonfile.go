// Package jsonfile реализует хранилище бэкофиса поверх трех плоских
// JSON-файлов: реестр клиентов, список банов и память диалогов ассистента.
//
// Каждая операция читает файл целиком, изменяет документ в памяти и
// перезаписывает файл заново — так же, как это делал исходный сервис.
// Отсутствующий файл считается пустым хранилищем. Мьютекс закрывает гонки
// внутри процесса; одновременная запись из нескольких процессов остается
// известным ограничением (последняя запись побеждает).
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/storage"
)

// Store инкапсулирует пути к трем файлам данных и реализует
// контракты репозиториев клиентов, банов и памяти диалогов.
type Store struct {
	mu            sync.Mutex
	customersPath string
	bansPath      string
	memoryPath    string
}

// New создает Store. Файлы создаются лениво при первой записи.
func New(customersPath, bansPath, memoryPath string) *Store {
	return &Store{
		customersPath: customersPath,
		bansPath:      bansPath,
		memoryPath:    memoryPath,
	}
}

// readDocument загружает файл в v. Отсутствующий файл оставляет v нулевым.
func readDocument(path string, v any) error {
	const op = "jsonfile.readDocument"
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// writeDocument сериализует v с отступами и перезаписывает файл целиком.
func writeDocument(path string, v any) error {
	const op = "jsonfile.writeDocument"
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ===== CUSTOMERS =====

func (s *Store) loadCustomers() (map[string]models.Customer, error) {
	customers := make(map[string]models.Customer)
	if err := readDocument(s.customersPath, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer возвращает запись клиента по email.
func (s *Store) GetCustomer(ctx context.Context, email string) (*models.Customer, error) {
	const op = "jsonfile.GetCustomer"
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadCustomers()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, ok := customers[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return &c, nil
}

// SaveCustomer вставляет или заменяет запись клиента.
func (s *Store) SaveCustomer(ctx context.Context, customer models.Customer) error {
	const op = "jsonfile.SaveCustomer"
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadCustomers()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	customers[customer.Email] = customer
	if err := writeDocument(s.customersPath, customers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ===== BANS =====

func (s *Store) loadBans() (map[string]models.BanRecord, error) {
	bans := make(map[string]models.BanRecord)
	if err := readDocument(s.bansPath, &bans); err != nil {
		return nil, err
	}
	return bans, nil
}

// GetBan возвращает запись бана по идентификатору пользователя.
func (s *Store) GetBan(ctx context.Context, userID string) (*models.BanRecord, error) {
	const op = "jsonfile.GetBan"
	s.mu.Lock()
	defer s.mu.Unlock()

	bans, err := s.loadBans()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b, ok := bans[userID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return &b, nil
}

// PutBan записывает бан, затирая предыдущую запись для пользователя.
func (s *Store) PutBan(ctx context.Context, userID string, record models.BanRecord) error {
	const op = "jsonfile.PutBan"
	s.mu.Lock()
	defer s.mu.Unlock()

	bans, err := s.loadBans()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	bans[userID] = record
	if err := writeDocument(s.bansPath, bans); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteBan удаляет запись бана и сообщает, была ли она.
func (s *Store) DeleteBan(ctx context.Context, userID string) (bool, error) {
	const op = "jsonfile.DeleteBan"
	s.mu.Lock()
	defer s.mu.Unlock()

	bans, err := s.loadBans()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := bans[userID]; !ok {
		return false, nil
	}
	delete(bans, userID)
	if err := writeDocument(s.bansPath, bans); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ListBans возвращает все записи банов.
func (s *Store) ListBans(ctx context.Context) (map[string]models.BanRecord, error) {
	const op = "jsonfile.ListBans"
	s.mu.Lock()
	defer s.mu.Unlock()

	bans, err := s.loadBans()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bans, nil
}

// ===== CHAT MEMORY =====

type memoryDocument map[string]map[string][]models.Exchange

func (s *Store) loadMemory() (memoryDocument, error) {
	memory := make(memoryDocument)
	if err := readDocument(s.memoryPath, &memory); err != nil {
		return nil, err
	}
	return memory, nil
}

// ListExchanges возвращает историю обменов пользователя для типа диалога.
func (s *Store) ListExchanges(ctx context.Context, userID, conversationType string) ([]models.Exchange, error) {
	const op = "jsonfile.ListExchanges"
	s.mu.Lock()
	defer s.mu.Unlock()

	memory, err := s.loadMemory()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return memory[userID][conversationType], nil
}

// AppendExchange дописывает обмен в конец истории пользователя.
func (s *Store) AppendExchange(ctx context.Context, userID, conversationType string, exchange models.Exchange) error {
	const op = "jsonfile.AppendExchange"
	s.mu.Lock()
	defer s.mu.Unlock()

	memory, err := s.loadMemory()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if memory[userID] == nil {
		memory[userID] = map[string][]models.Exchange{
			models.ConversationRegular:    {},
			models.ConversationOnboarding: {},
		}
	}
	memory[userID][conversationType] = append(memory[userID][conversationType], exchange)
	if err := writeDocument(s.memoryPath, memory); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TrimExchanges оставляет не более keep последних обменов, отбрасывая
// самые старые записи с начала последовательности.
func (s *Store) TrimExchanges(ctx context.Context, userID, conversationType string, keep int) error {
	const op = "jsonfile.TrimExchanges"
	s.mu.Lock()
	defer s.mu.Unlock()

	memory, err := s.loadMemory()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	exchanges := memory[userID][conversationType]
	if len(exchanges) <= keep {
		return nil
	}
	memory[userID][conversationType] = exchanges[len(exchanges)-keep:]
	if err := writeDocument(s.memoryPath, memory); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
