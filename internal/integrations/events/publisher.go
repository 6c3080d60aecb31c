package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// KafkaPublisher публикует события бронирований в Kafka
// Ключ сообщения - id мастера, поэтому события одного мастера попадают в одну партицию по порядку
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	now     func() time.Time
	log     Logger
}

// NewKafkaPublisher создает публикатор поверх kafka.Writer
func NewKafkaPublisher(brokers []string, topic string, timeout time.Duration, log Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(writer, timeout, log)
}

// NewPublisherWithWriter создает публикатор с произвольным writer
func NewPublisherWithWriter(writer MessageWriter, timeout time.Duration, log Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  writer,
		timeout: timeout,
		now:     time.Now,
		log:     log,
	}
}

// BookingCreated публикует booking.created
func (p *KafkaPublisher) BookingCreated(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, p.newEvent(TypeBookingCreated, booking, ""))
}

// BookingStatusChanged публикует booking.status_changed
func (p *KafkaPublisher) BookingStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus) error {
	return p.publish(ctx, p.newEvent(TypeBookingStatusChanged, booking, string(previous)))
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) newEvent(eventType string, booking *domain.Booking, previous string) BookingEvent {
	return BookingEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		OccurredAt:      p.now().UTC(),
		BookingID:       booking.ID,
		CustomerID:      booking.CustomerID,
		ProviderID:      booking.ProviderID,
		ServiceID:       booking.ServiceID,
		StartAt:         booking.StartAt,
		DurationMinutes: booking.DurationMinutes,
		Status:          string(booking.Status),
		PreviousStatus:  previous,
		Price:           booking.Price,
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrPublish, event.EventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ProviderID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s booking_id=%d: %v", ErrPublish, event.EventType, event.BookingID, err)
	}

	p.log.Info("Published %s event_id=%s booking_id=%d", event.EventType, event.EventID, event.BookingID)
	return nil
}

// NopPublisher ничего не публикует (события выключены)
type NopPublisher struct{}

// BookingCreated ничего не делает
func (NopPublisher) BookingCreated(context.Context, *domain.Booking) error { return nil }

// BookingStatusChanged ничего не делает
func (NopPublisher) BookingStatusChanged(context.Context, *domain.Booking, domain.BookingStatus) error {
	return nil
}

// Close ничего не делает
func (NopPublisher) Close() error { return nil }
