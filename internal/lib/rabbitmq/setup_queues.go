package rabbitmq

// QueueConfig описывает очередь и ее ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetOnboardingQueues возвращает очереди событий жизненного цикла клиента.
func GetOnboardingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "onboarding.welcome", RoutingKey: "customer.created"},
		{QueueName: "onboarding.upgraded", RoutingKey: "customer.upgraded"},
	}
}
