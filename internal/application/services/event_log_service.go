package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
)

// EventLogService subscribes to the reservation and user channels and writes
// every lifecycle event to the structured log as an audit trail.
type EventLogService struct {
	eventBus providers.EventBus
	logger   *zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// OnEvent, when set, is called after an event is logged
	OnEvent func(channel string, event *entities.Event)
}

// NewEventLogService creates a new event log service
func NewEventLogService(eventBus providers.EventBus) *EventLogService {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogService{
		eventBus: eventBus,
		logger:   observability.GetLogger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events
func (s *EventLogService) Start() error {
	for _, channel := range []string{providers.EventChannelReservations, providers.EventChannelUsers} {
		eventChan, err := s.eventBus.Subscribe(s.ctx, channel)
		if err != nil {
			s.cancel()
			return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		s.wg.Add(1)
		go s.processEvents(channel, eventChan)
	}

	s.logger.Info().Msg("Event log service started")
	return nil
}

// Stop stops the event log service and waits for its subscribers to exit
func (s *EventLogService) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info().Msg("Event log service stopped")
}

func (s *EventLogService) processEvents(channel string, eventChan <-chan *entities.Event) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(channel, event)
		}
	}
}

func (s *EventLogService) handleEvent(channel string, event *entities.Event) {
	entry := s.logger.Info().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("subject_id", event.SubjectID).
		Time("event_time", event.Timestamp)
	if event.ActorID != "" {
		entry = entry.Str("actor_id", event.ActorID)
	}
	if status, ok := event.Data["status"]; ok {
		entry = entry.Interface("status", status)
	}
	entry.Msg("Lifecycle event")

	if s.OnEvent != nil {
		s.OnEvent(channel, event)
	}
}
