package bookingflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"busbooking/internal/bookings"
	"busbooking/internal/fare"
	"busbooking/internal/passengers"
	"busbooking/internal/payments"
	"busbooking/internal/seats"
	"busbooking/internal/shared/apperror"
	"busbooking/internal/shared/config"
	"busbooking/pkg/logger"

	"github.com/google/uuid"
)

// Inventory is the read side the flow depends on: schedules, their seats and the known cities.
type Inventory interface {
	FetchSchedule(ctx context.Context, scheduleID uuid.UUID) (*ScheduleInfo, error)
	FetchSeats(ctx context.Context, scheduleID uuid.UUID) ([]seats.Seat, error)
	FetchCities(ctx context.Context) ([]string, error)
}

// Submitter persists a paid booking.
type Submitter interface {
	Submit(ctx context.Context, req bookings.SubmissionRequest) (*bookings.Result, error)
}

type Service interface {
	Start(ctx context.Context) (*Flow, error)
	Get(ctx context.Context, flowID string) (*Flow, error)
	OpenSchedule(ctx context.Context, flowID, scheduleID string) (*Flow, error)
	ToggleSeat(ctx context.Context, flowID, seatID string) (*Flow, bool, error)
	SetStops(ctx context.Context, flowID, source, destination string) (*Flow, error)
	ProceedToPassengers(ctx context.Context, flowID string, token *AuthToken) (*Flow, error)
	AddPassenger(ctx context.Context, flowID string) (*Flow, error)
	RemovePassenger(ctx context.Context, flowID string, index int) (*Flow, error)
	UpdatePassenger(ctx context.Context, flowID string, index int, draft passengers.Draft) (*Flow, error)
	ProceedToPayment(ctx context.Context, flowID string) (*Flow, error)
	Pay(ctx context.Context, flowID string, card payments.Card) (*Flow, error)
	Back(ctx context.Context, flowID string) (*Flow, error)
	Restart(ctx context.Context, flowID string) (*Flow, error)
	Discard(ctx context.Context, flowID string) error
	Calculator() fare.Calculator
}

type service struct {
	inventory Inventory
	store     Store
	locker    Locker
	gateway   payments.Gateway
	submitter Submitter
	consumer  ConfirmationConsumer

	calc           fare.Calculator
	lockTTL        time.Duration
	paymentTimeout time.Duration
	currency       string
	now            func() time.Time
}

// NewService wires the flow orchestrator. consumer may be nil, in which case confirmations are only logged.
func NewService(cfg *config.Config, inventory Inventory, store Store, locker Locker, gateway payments.Gateway, submitter Submitter, consumer ConfirmationConsumer) Service {
	if consumer == nil {
		consumer = LogConsumer{}
	}
	return &service{
		inventory:      inventory,
		store:          store,
		locker:         locker,
		gateway:        gateway,
		submitter:      submitter,
		consumer:       consumer,
		calc:           fare.NewCalculator(cfg.Fare),
		lockTTL:        cfg.Flow.SubmissionLockTTL,
		paymentTimeout: cfg.Payment.Timeout,
		currency:       cfg.Payment.Currency,
		now:            time.Now,
	}
}

func (s *service) Calculator() fare.Calculator {
	return s.calc
}

func (s *service) Start(ctx context.Context) (*Flow, error) {
	f := NewFlow(s.now())
	if err := s.store.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}
	logger.GetDefault().LogFlowTransition(ctx, f.ID.String(), "", string(f.State))
	return f, nil
}

func (s *service) Get(ctx context.Context, flowID string) (*Flow, error) {
	if _, err := uuid.Parse(flowID); err != nil {
		return nil, ErrInvalidFlowID
	}
	f, err := s.store.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	f.normalize()
	return f, nil
}

// mutate loads the flow, applies fn and writes the flow back even when fn fails,
// so recorded errors and Errored transitions survive the request.
func (s *service) mutate(ctx context.Context, flowID string, fn func(f *Flow) error) (*Flow, error) {
	f, err := s.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}

	before := f.State
	opErr := fn(f)
	f.UpdatedAt = s.now()

	if err := s.store.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}
	if f.State != before {
		logger.GetDefault().LogFlowTransition(ctx, f.ID.String(), string(before), string(f.State))
	}
	return f, opErr
}

// upstream records a failed fetch and moves the flow to Errored.
func upstream(f *Flow, op string, err error) error {
	wrapped := apperror.NewUpstream(op, err)
	f.Fail(wrapped)
	return wrapped
}

func (s *service) OpenSchedule(ctx context.Context, flowID, scheduleID string) (*Flow, error) {
	schedUUID, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, ErrInvalidSchedID
	}

	return s.mutate(ctx, flowID, func(f *Flow) error {
		if f.State != StateBrowsing {
			return ErrOutOfOrder
		}

		info, err := s.inventory.FetchSchedule(ctx, schedUUID)
		if err != nil {
			return upstream(f, "FETCH_SCHEDULE", err)
		}
		inventory, err := s.inventory.FetchSeats(ctx, schedUUID)
		if err != nil {
			return upstream(f, "FETCH_SEATS", err)
		}
		cities, err := s.inventory.FetchCities(ctx)
		if err != nil {
			return upstream(f, "FETCH_CITIES", err)
		}

		return f.Open(ctx, *info, inventory, cities)
	})
}

func (s *service) ToggleSeat(ctx context.Context, flowID, seatID string) (*Flow, bool, error) {
	id, err := uuid.Parse(seatID)
	if err != nil {
		return nil, false, ErrSeatNotFound
	}

	var selected bool
	f, err := s.mutate(ctx, flowID, func(f *Flow) error {
		var opErr error
		selected, opErr = f.ToggleSeat(id)
		return opErr
	})
	return f, selected, err
}

func (s *service) SetStops(ctx context.Context, flowID, source, destination string) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		if err := f.SetSource(source); err != nil {
			return err
		}
		return f.SetDestination(destination)
	})
}

func (s *service) ProceedToPassengers(ctx context.Context, flowID string, token *AuthToken) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		return f.ProceedToPassengers(token, s.now())
	})
}

func (s *service) AddPassenger(ctx context.Context, flowID string) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		return f.AddPassenger()
	})
}

func (s *service) RemovePassenger(ctx context.Context, flowID string, index int) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		return f.RemovePassenger(index)
	})
}

func (s *service) UpdatePassenger(ctx context.Context, flowID string, index int, draft passengers.Draft) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		return f.UpdatePassenger(index, draft)
	})
}

func (s *service) ProceedToPayment(ctx context.Context, flowID string) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		return f.ProceedToPayment()
	})
}

// Back steps back one stage. Landing on seat selection refreshes the seat snapshot.
func (s *service) Back(ctx context.Context, flowID string) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		if err := f.Back(); err != nil {
			return err
		}
		if f.State != StateSeatSelection || f.Schedule == nil {
			return nil
		}
		inventory, err := s.inventory.FetchSeats(ctx, f.Schedule.ID)
		if err != nil {
			return upstream(f, "FETCH_SEATS", err)
		}
		f.RefreshInventory(ctx, inventory)
		return nil
	})
}

func (s *service) Restart(ctx context.Context, flowID string) (*Flow, error) {
	return s.mutate(ctx, flowID, func(f *Flow) error {
		warnUnbookedPayment(ctx, f, "flow restarted")
		f.Restart(s.now())
		return nil
	})
}

// Discard drops the flow. Nothing is persisted before confirmation, so there is nothing to undo.
func (s *service) Discard(ctx context.Context, flowID string) error {
	if _, err := uuid.Parse(flowID); err != nil {
		return ErrInvalidFlowID
	}
	if f, err := s.store.Get(ctx, flowID); err == nil {
		warnUnbookedPayment(ctx, f, "flow discarded")
	}
	return s.store.Delete(ctx, flowID)
}

// warnUnbookedPayment logs a captured charge that no booking will use. Refunds
// are settled with the provider by reference.
func warnUnbookedPayment(ctx context.Context, f *Flow, reason string) {
	if f.PaymentRef == "" || f.State == StateConfirmed {
		return
	}
	logger.GetDefault().LogOrphanedPayment(ctx, f.ID.String(), f.PaymentRef, f.PaidAmount, reason)
}

// Pay charges the card and submits the booking, serialised per flow by the submission lock.
func (s *service) Pay(ctx context.Context, flowID string, card payments.Card) (*Flow, error) {
	if _, err := uuid.Parse(flowID); err != nil {
		return nil, ErrInvalidFlowID
	}

	release, err := s.locker.Acquire(ctx, flowID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	var confirmation *Confirmation
	f, err := s.mutate(ctx, flowID, func(f *Flow) error {
		if err := f.ensureStage(StatePayment); err != nil {
			return err
		}
		if err := card.Validate(); err != nil {
			return f.record(err)
		}

		total := f.Fare(s.calc).TotalAmount
		if f.PaymentRef != "" && !f.PaymentCovers(total) {
			logger.GetDefault().LogOrphanedPayment(ctx, f.ID.String(), f.PaymentRef, f.PaidAmount, "booking changed after payment")
			f.clearPayment()
		}
		if f.PaymentRef == "" {
			if err := s.charge(ctx, f, card, total); err != nil {
				return f.record(err)
			}
			// keep the reference even if persisting the booking fails below
			if err := s.store.Save(ctx, f); err != nil {
				logger.GetDefault().ErrorWithContext(ctx, "failed to save payment reference", err, map[string]interface{}{
					"flow_id": f.ID.String(),
				})
			}
		}

		selected := f.Selection.Seats()
		travellers, err := f.Passengers.Bind(selected)
		if err != nil {
			return f.record(err)
		}

		res, err := s.submitter.Submit(ctx, bookings.SubmissionRequest{
			UserID:        *f.UserID,
			ScheduleID:    f.Schedule.ID,
			DepartureTime: f.Schedule.DepartureTime,
			Source:        f.Stops.Source,
			Destination:   f.Stops.Destination,
			Fare:          f.Fare(s.calc),
			Seats:         selected,
			Passengers:    travellers,
			PaymentRef:    f.PaymentRef,
			PaymentMethod: "card",
			Currency:      s.currency,
		})
		if err != nil {
			return f.record(err)
		}

		if err := f.Confirm(res.BookingID, res.BookingCode); err != nil {
			return err
		}
		for i := range travellers {
			if i < len(res.PassengerIDs) {
				travellers[i].ID = res.PassengerIDs[i]
			}
		}
		confirmation = &Confirmation{
			FlowID:      f.ID,
			BookingID:   res.BookingID,
			BookingCode: res.BookingCode,
			UserID:      *f.UserID,
			UserEmail:   f.UserEmail,
			Schedule:    *f.Schedule,
			TravelDate:  f.Schedule.TravelDate(),
			Stops:       f.Stops,
			Passengers:  travellers,
			Fare:        f.Fare(s.calc),
			PaymentRef:  f.PaymentRef,
		}
		return nil
	})
	if err != nil {
		return f, err
	}

	if confirmation != nil {
		if err := s.consumer.Confirm(ctx, *confirmation); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "confirmation consumer failed", err, map[string]interface{}{
				"flow_id":    f.ID.String(),
				"booking_id": confirmation.BookingID.String(),
			})
		}
	}
	return f, nil
}

func (s *service) charge(ctx context.Context, f *Flow, card payments.Card, total int64) error {
	payCtx := ctx
	if s.paymentTimeout > 0 {
		var cancel context.CancelFunc
		payCtx, cancel = context.WithTimeout(ctx, s.paymentTimeout)
		defer cancel()
	}

	receipt, err := s.gateway.Pay(payCtx, card, total)
	if err != nil {
		logger.GetDefault().LogPaymentResult(ctx, f.ID.String(), total, "", err)
		if errors.Is(err, payments.ErrDeclined) {
			return apperror.NewSubmission(apperror.CodePaymentDeclined, err)
		}
		return apperror.NewSubmission(apperror.CodePaymentDeclined, fmt.Errorf("payment not completed: %w", err))
	}

	logger.GetDefault().LogPaymentResult(ctx, f.ID.String(), total, receipt.Reference, nil)
	f.MarkPaid(receipt.Reference, total, f.Selection.IDs())
	return nil
}

// ParseIndex reads a passenger index from a path parameter.
func ParseIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, apperror.NewValidation(apperror.CodePassengerRequired, "index", "passenger index must be a non-negative integer")
	}
	return i, nil
}
