package alerting

import (
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

const (
	alertExchange     = "cropwatch.alerts"
	publishExpiration = "86400000" // 24h in ms, stale alerts are useless
)

// Publisher forwards alert events to RabbitMQ for downstream consumers
// (push notification service, assistant, dashboards). A nil Publisher is
// a no-op so the API keeps working when AMQP is not configured.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the alert exchange
func NewPublisher(amqpURL string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := channel.ExchangeDeclare(alertExchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

// AlertCreated publishes a created event
func (p *Publisher) AlertCreated(alert models.CommunityAlert) {
	p.publish("alerts.created", alert)
}

// AlertUpdated publishes an updated event
func (p *Publisher) AlertUpdated(alert models.CommunityAlert) {
	p.publish("alerts.updated", alert)
}

func (p *Publisher) publish(routingKey string, alert models.CommunityAlert) {
	if p == nil || p.channel == nil {
		return
	}
	body, err := json.Marshal(alert)
	if err != nil {
		zap.S().Errorw("failed to marshal alert event", "alertId", alert.ID.Hex(), "error", err)
		return
	}
	err = p.channel.Publish(alertExchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Expiration:  publishExpiration,
		Body:        body,
	})
	if err != nil {
		// best-effort fanout, the alert itself is already durable
		zap.S().Errorw("failed to publish alert event",
			"routingKey", routingKey, "alertId", alert.ID.Hex(), "error", err)
	}
}

// Close tears down the AMQP channel and connection
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
