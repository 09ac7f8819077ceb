package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"fleetrental-backend/internal/domain"
)

const (
	EventReservationCreated   = "reservation_created"
	EventReservationConfirmed = "reservation_confirmed"
	EventReservationCancelled = "reservation_cancelled"
	EventReservationCompleted = "reservation_completed"
	EventTripStarted          = "trip_started"
)

// ReservationEvent is the wire shape published for every lifecycle change.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID int32     `json:"reservation_id"`
	Reference     string    `json:"reference"`
	VehicleID     int32     `json:"vehicle_id"`
	UserID        int32     `json:"user_id"`
	DriverID      *int32    `json:"driver_id,omitempty"`
	Status        string    `json:"status"`
	TripStatus    string    `json:"trip_status"`
	PickupDate    time.Time `json:"pickup_date"`
	ReturnDate    time.Time `json:"return_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishReservationEvent emits a lifecycle event keyed by the reservation
// reference so all events for one booking land on the same partition.
func (p *Producer) PublishReservationEvent(ctx context.Context, eventType string, res *domain.Reservation) error {
	event := ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		Reference:     res.Reference,
		VehicleID:     res.VehicleID,
		UserID:        res.UserID,
		DriverID:      res.DriverID,
		Status:        string(res.Status),
		TripStatus:    string(res.TripStatus),
		PickupDate:    res.PickupDate,
		ReturnDate:    res.ReturnDate,
		OccurredAt:    time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(res.Reference),
		Value: data,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
