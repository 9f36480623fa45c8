// Package storage объявляет общие ошибки хранилищ. Конкретные драйверы
// (jsonfile, postgres) живут в подпакетах и реализуют контракты,
// объявленные на стороне сервисов-потребителей.
package storage

import "errors"

// ErrNotFound возвращается драйверами, когда запись отсутствует.
var ErrNotFound = errors.New("record not found")
