package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/carhive/rental-service/internal/model"
)

type Type string

const (
	ReservationCreated   Type = "RESERVATION_CREATED"
	ReservationCancelled Type = "RESERVATION_CANCELLED"
)

type ReservationEvent struct {
	Type          Type         `json:"type"`
	ReservationID int64        `json:"reservationId"`
	UserID        int64        `json:"userId,omitempty"`
	VehicleID     int64        `json:"vehicleId,omitempty"`
	Status        model.Status `json:"status,omitempty"`
	Reason        *string      `json:"reason,omitempty"`
	OccurredAt    time.Time    `json:"occurredAt"`
}

// Publisher emits reservation lifecycle events. Publishing is best
// effort: a broker failure never fails the reservation operation.
type Publisher interface {
	Publish(ev ReservationEvent)
}

func NewPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) Publisher {
	return &publisherImpl{
		producer: producer,
		topic:    topic,
		log:      log.Named("events"),
	}
}

type publisherImpl struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func (p *publisherImpl) Publish(ev ReservationEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("marshal event", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{Topic: p.topic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		p.log.Warn("publish event", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}

// NewNopPublisher is used when the broker is not configured.
func NewNopPublisher() Publisher { return nopPublisher{} }

type nopPublisher struct{}

func (nopPublisher) Publish(ReservationEvent) {}
