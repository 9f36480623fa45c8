package rabbitmq

import (
	"github.com/streadway/amqp"
)

// Publisher связывает канал с exchange и публикует события жизненного
// цикла клиента по ключу маршрутизации.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish сериализует событие в JSON и отправляет его в exchange.
func (p *Publisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, p.exchange, routingKey, message)
}
