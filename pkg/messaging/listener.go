package messaging

import (
	"github.com/JoshuaShepherd/movemental-templates/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic consumes the topic until the channel closes. Messages the
// handler fails on are rejected without requeue.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, logger *zap.Logger, handler func(amqp.Delivery) error) error {
	fc, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		consume(msgs, logger.With(zap.String("topic", getName(prefix, topic))), handler)
	}(fc)
	return nil
}

func consume(msgs <-chan amqp.Delivery, logger *zap.Logger, handler func(amqp.Delivery) error) {
	for d := range msgs {
		settle(d, d.Acknowledger, logger, handler)
	}
}

func settle(d amqp.Delivery, ack amqp.Acknowledger, logger *zap.Logger, handler func(amqp.Delivery) error) {
	handleErr := handler(d)
	if handleErr != nil {
		logger.Warn("error processing message", zap.Error(handleErr))
	}
	if ack == nil {
		return
	}
	var err error
	if handleErr != nil {
		err = ack.Nack(d.DeliveryTag, false, false)
	} else {
		err = ack.Ack(d.DeliveryTag, false)
	}
	if err != nil {
		logger.Debug("settle failed", zap.Error(err))
	}
}

// Decode unmarshals a JSON message body.
func Decode[V any](d amqp.Delivery) (V, error) {
	var v V
	err := jsoncompat.Unmarshal(d.Body, &v)
	return v, err
}
