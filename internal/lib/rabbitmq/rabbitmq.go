// Package rabbitmq содержит подключение к брокеру и публикацию событий
// жизненного цикла клиента (регистрация после оплаты, апгрейд пакета).
// События потребляет внешний сервис онбординг-рассылок.
package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Connect устанавливает соединение и открывает канал.
func Connect(url string) (*amqp.Connection, *amqp.Channel, error) {
	const op = "rabbitmq.Connect"
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return conn, ch, nil
}

// SetupQueues объявляет exchange и очереди событий онбординга.
func SetupQueues(ch *amqp.Channel, exchange string) error {
	const op = "rabbitmq.SetupQueues"

	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, q := range GetOnboardingQueues() {
		queue, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := ch.QueueBind(queue.Name, q.RoutingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
