package events

import (
	"context"
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

type KafkaSink struct {
	writer MessageWriter
	now    func() time.Time
}

func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return &KafkaSink{
		writer: writer,
		now:    time.Now,
	}
}

// Emit implements ledger_core.EventSink.
func (k *KafkaSink) Emit(ctx context.Context, name string, payload any) error {
	data, err := encodeEvent(name, payload, k.now())
	if err != nil {
		return err
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []kafka.Header{
		{Key: EventNameHeader, Value: []byte(name)},
	}
	for _, key := range carrier.Keys() {
		headers = append(headers, kafka.Header{
			Key:   key,
			Value: []byte(carrier.Get(key)),
		})
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(eventKey(payload)),
		Value:   data,
		Headers: headers,
	})
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}

var _ ledger_core.EventSink = (*KafkaSink)(nil)
