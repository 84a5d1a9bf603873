package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

// messageWriter lo cumple *kafka.Writer; las pruebas lo sustituyen.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos de stock en un tópico. La clave es el id del repuesto:
// todos los eventos de un repuesto caen en la misma partición y conservan su orden.
type KafkaPublisher struct {
	writer messageWriter
}

var _ ledger.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher crea el productor sobre brokers/topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	})
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishStockEvent(ctx context.Context, event *ledger.StockEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento de stock: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.PartID),
		Value: payload,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar evento %s en kafka: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher descarta los eventos (KAFKA_BROKERS vacío).
type NopPublisher struct{}

var _ ledger.EventPublisher = NopPublisher{}

func (NopPublisher) PublishStockEvent(context.Context, *ledger.StockEvent) error { return nil }
