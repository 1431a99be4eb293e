package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/zaikaclub/zaika/pkg/event"
)

// Subscriber consumes booking lifecycle events and surfaces the ones an
// operator should act on. Notification channels (SMS, WhatsApp) hang off this
// consumer, so the booking flow never blocks on them.
type Subscriber struct {
	subscriber events.Subscriber
	logger     apt.Logger
}

func NewSubscriber(sub events.Subscriber, logger apt.Logger) *Subscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Subscriber{
		subscriber: sub,
		logger:     logger,
	}
}

func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info("starting booking notification subscriber", "topic", event.BookingsTopic)
	if s.subscriber == nil {
		return fmt.Errorf("notification subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, event.BookingsTopic, s.handleEvent)
}

func (s *Subscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.BookingEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid booking event", "error", err)
		return nil
	}

	switch evt.EventType {
	case event.EventBookingStatusChanged:
		s.logger.Info("booking status changed",
			"booking_id", evt.BookingID,
			"client", evt.ClientName,
			"from", evt.PreviousStatus,
			"to", evt.Status,
			"event_date", evt.EventDate,
		)
	case event.EventBookingStaffAssigned:
		if evt.Understaffed {
			s.logger.Info("booking is understaffed",
				"booking_id", evt.BookingID,
				"event_date", evt.EventDate,
				"staff_count", evt.StaffCount,
			)
		}
	case event.EventBookingDeleted:
		s.logger.Info("booking deleted",
			"booking_id", evt.BookingID,
			"client", evt.ClientName,
			"event_date", evt.EventDate,
		)
	default:
		s.logger.Debug("booking event", "event_type", evt.EventType, "booking_id", evt.BookingID)
	}

	return nil
}
