package tracking

import (
	"net/http"
	"time"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common"
	"github.com/JoshuaShepherd/movemental-templates/pkg/messaging"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const batchSize = 100

// RabbitTracking batches query events and publishes them on the
// query_tracking topic.
type RabbitTracking struct {
	prefix     string
	connection *amqp.Connection
	queue      *common.QueueHandler[QueryEvent]
	logger     *zap.Logger
}

func NewRabbitTracking(url, prefix string, logger *zap.Logger) (*RabbitTracking, error) {
	ret := &RabbitTracking{
		prefix: prefix,
		logger: logger,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	ret.queue = common.NewQueueHandler(ret.publish, batchSize, 5*time.Second)
	return ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return err
	}
	if err = defineTopic(conn, t.prefix); err != nil {
		return err
	}
	t.connection = conn
	return nil
}

type connection interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

// defineTopic declares the tracking exchange and closes conn when that fails.
func defineTopic(conn connection, prefix string) error {
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, prefix, messaging.QueryTracking); err != nil {
		conn.Close()
		return err
	}
	return nil
}

func (t *RabbitTracking) publish(events []QueryEvent) {
	if err := messaging.SendChange(t.connection, t.prefix, messaging.QueryTracking, events); err != nil {
		t.logger.Warn("error sending query events", zap.Int("events", len(events)), zap.Error(err))
	}
}

func (t *RabbitTracking) TrackQuery(state *types.QueryState, resultLen int, r *http.Request) {
	t.queue.Add(NewQueryEvent(state, resultLen, r))
}

// Close flushes queued events before closing the connection.
func (t *RabbitTracking) Close() error {
	t.queue.Close()
	return t.connection.Close()
}
