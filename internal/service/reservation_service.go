package service

import (
	"context"
	"time"

	"github.com/materes/reservations/internal/domain"
	"github.com/materes/reservations/internal/notifier"
	"github.com/materes/reservations/internal/repo/postgres"
	"github.com/materes/reservations/pkg/config"
	"github.com/materes/reservations/pkg/events"
	"github.com/materes/reservations/pkg/logger"
)

// ReservationService drives the reservation lifecycle: it validates
// submissions, owns transition legality, and coordinates the store and
// the notifier. It holds no record state between calls; every mutation
// re-reads current status from the store first.
type ReservationService interface {
	Submit(ctx context.Context, fields domain.SubmitFields) (*domain.Reservation, error)
	Confirm(ctx context.Context, id int64) (*domain.Reservation, error)
	Deny(ctx context.Context, id int64) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]domain.Reservation, error)
}

type reservationService struct {
	repo     postgres.ReservationRepo
	notifier notifier.Notifier
	eventBus events.Publisher
	strict   bool
}

func NewReservationService(
	repo postgres.ReservationRepo,
	n notifier.Notifier,
	eventBus events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:     repo,
		notifier: n,
		eventBus: eventBus,
		strict:   cfg.Reservations.StrictTransitions,
	}
}

func (s *reservationService) Submit(ctx context.Context, fields domain.SubmitFields) (*domain.Reservation, error) {
	in, err := fields.Parse()
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "create", Err: err}
	}

	// The record is durable at this point; notification outcome must
	// not change what the caller sees.
	s.notifier.Notify(ctx, notifier.EventNewRequest, res)

	s.publish(ctx, events.ReservationCreated, events.ReservationCreatedEvent{
		ReservationID: res.ID,
		Name:          res.Name,
		Email:         res.Email,
		Date:          res.Date,
		Time:          res.Time,
		Guests:        res.Guests,
		CreatedAt:     res.CreatedAt,
	})

	return res, nil
}

func (s *reservationService) Confirm(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get", Err: err}
	}
	if res == nil {
		return nil, &domain.NotFoundError{ID: id}
	}

	if err := res.CheckTransition(domain.ActionConfirm, s.strict); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, domain.StatusConfirmed)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "update", Err: err}
	}
	if updated == nil {
		return nil, &domain.NotFoundError{ID: id}
	}

	s.notifier.Notify(ctx, notifier.EventConfirmed, updated)

	s.publish(ctx, events.ReservationConfirmed, events.ReservationModeratedEvent{
		ReservationID: updated.ID,
		Email:         updated.Email,
		Status:        string(updated.Status),
		ModeratedAt:   time.Now().UTC(),
	})

	return updated, nil
}

func (s *reservationService) Deny(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get", Err: err}
	}
	if res == nil {
		return nil, &domain.NotFoundError{ID: id}
	}

	if err := res.CheckTransition(domain.ActionDeny, s.strict); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, domain.StatusDenied)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "update", Err: err}
	}
	if updated == nil {
		return nil, &domain.NotFoundError{ID: id}
	}

	s.notifier.Notify(ctx, notifier.EventDenied, updated)

	s.publish(ctx, events.ReservationDenied, events.ReservationModeratedEvent{
		ReservationID: updated.ID,
		Email:         updated.Email,
		Status:        string(updated.Status),
		ModeratedAt:   time.Now().UTC(),
	})

	return updated, nil
}

func (s *reservationService) Delete(ctx context.Context, id int64) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return &domain.PersistenceError{Op: "get", Err: err}
	}
	if res == nil {
		return &domain.NotFoundError{ID: id}
	}

	// Unconditional regardless of status; no notification is sent.
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return &domain.PersistenceError{Op: "delete", Err: err}
	}
	if !ok {
		return &domain.NotFoundError{ID: id}
	}

	s.publish(ctx, events.ReservationDeleted, events.ReservationDeletedEvent{
		ReservationID: id,
		DeletedAt:     time.Now().UTC(),
	})

	return nil
}

func (s *reservationService) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list", Err: err}
	}
	return list, nil
}

func (s *reservationService) publish(ctx context.Context, subject string, event interface{}) {
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish reservation event",
			"subject", subject, "error", err)
	}
}
