package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// BookingStore reports missing rows as sql.ErrNoRows.
type BookingStore interface {
	Insert(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id int64) (*models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type VehicleGateway interface {
	VerifyVehicle(ctx context.Context, vehicleID int64) error
}

type PaymentGateway interface {
	Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error)
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEvent) error
}

type MetricsRecorder interface {
	ObserveOutcome(outcome string)
	ObserveGatewayCall(gateway, result string, seconds float64)
}

// Outcomes recorded per orchestration run.
const (
	OutcomeConfirmed   = "confirmed"
	OutcomeFailed      = "failed"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeStoreError  = "store_error"
	OutcomeInternal    = "internal_error"
)

type BookingService struct {
	Store    BookingStore
	Vehicles VehicleGateway
	Slots    *SlotAllocator
	Payments PaymentGateway
	Events   EventPublisher
	Metrics  MetricsRecorder
	Logger   *logger.Logger

	now    func() time.Time
	tracer trace.Tracer
}

func NewBookingService(store BookingStore, vehicles VehicleGateway, workshop WorkshopGateway, payments PaymentGateway, events EventPublisher, log *logger.Logger) *BookingService {
	return &BookingService{
		Store:    store,
		Vehicles: vehicles,
		Slots:    NewSlotAllocator(workshop),
		Payments: payments,
		Events:   events,
		Logger:   log,
		now:      time.Now,
		tracer:   otel.Tracer("ms-booking/internal/booking"),
	}
}

// SetClock replaces the clock used for bookingDate and event timestamps.
func (s *BookingService) SetClock(now func() time.Time) {
	s.now = now
}

// ---------------- ORCHESTRATION ----------------

// CreateBooking runs one orchestration: verify vehicle, allocate slot, persist PENDING,
// charge, persist the terminal status. A declined or failed payment is returned as a
// FAILED booking, not as an error. The run ignores caller cancellation; each downstream call is
// bounded by the HTTP client timeout instead.
func (s *BookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := s.tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.Int64("booking.vehicle_id", req.VehicleID),
		attribute.Int64("booking.user_id", req.UserID),
	))
	defer span.End()

	s.Logger.Info("BOOKING", fmt.Sprintf("Starting booking creation for vehicle ID: %d", req.VehicleID))

	if err := req.Validate(); err != nil {
		return nil, s.abort(span, OutcomeRejected, fmt.Errorf("%w: %v", ErrInvalidBooking, err))
	}

	// Step 1: Verify the vehicle exists
	if err := s.verifyVehicle(ctx, req.VehicleID); err != nil {
		return nil, s.abort(span, outcomeFor(err), err)
	}

	// Step 2: Allocate a workshop slot
	slotID, err := s.allocateSlot(ctx)
	if err != nil {
		return nil, s.abort(span, outcomeFor(err), err)
	}

	// Step 3: Build the pending booking
	booking := &models.Booking{
		UserID:      req.UserID,
		VehicleID:   req.VehicleID,
		ServiceType: req.ServiceType,
		Amount:      req.Amount,
		SlotID:      &slotID,
		BookingDate: s.now(),
	}
	if err := advance(booking, models.StatusPending); err != nil {
		return nil, s.abort(span, OutcomeInternal, err)
	}

	// Step 4: Persist. From here on the booking is always resolved to a terminal status.
	if err := s.Store.Insert(ctx, booking); err != nil {
		s.Logger.Error("DATABASE", fmt.Sprintf("Failed to persist booking for vehicle %d: %v", req.VehicleID, err))
		return nil, s.abort(span, OutcomeStoreError, fmt.Errorf("failed to persist booking: %w", err))
	}
	span.SetAttributes(attribute.Int64("booking.id", booking.ID), attribute.Int64("booking.slot_id", slotID))
	s.Logger.LogBooking("CREATE", booking.ID, fmt.Sprintf("Booking saved as %s with slot %d", booking.Status, slotID))
	s.publish(ctx, models.EventBookingCreated, booking)

	// Step 5: Charge the booking amount
	if err := s.settlePayment(ctx, booking); err != nil {
		return nil, s.abort(span, OutcomeInternal, err)
	}

	// Step 6: Persist the terminal status
	if err := s.Store.Update(ctx, booking); err != nil {
		s.Logger.Error("DATABASE", fmt.Sprintf("Failed to persist final state of booking %d: %v", booking.ID, err))
		return nil, s.abort(span, OutcomeStoreError, fmt.Errorf("failed to persist final state of booking %d: %w", booking.ID, err))
	}

	if booking.Status == models.StatusConfirmed {
		s.publish(ctx, models.EventBookingConfirmed, booking)
		s.observeOutcome(OutcomeConfirmed)
	} else {
		s.publish(ctx, models.EventBookingFailed, booking)
		s.observeOutcome(OutcomeFailed)
	}
	span.SetAttributes(attribute.String("booking.status", string(booking.Status)))

	s.Logger.LogBooking("CREATE", booking.ID, fmt.Sprintf("Booking process completed with status %s", booking.Status))
	return booking, nil
}

func (s *BookingService) verifyVehicle(ctx context.Context, vehicleID int64) error {
	ctx, span := s.tracer.Start(ctx, "booking.verify_vehicle")
	defer span.End()

	start := time.Now()
	err := s.Vehicles.VerifyVehicle(ctx, vehicleID)
	s.observeGateway("vehicle", err, start)

	switch {
	case err == nil:
		s.Logger.Info("BOOKING", fmt.Sprintf("Vehicle validated successfully for vehicleId: %d", vehicleID))
		return nil
	case errors.Is(err, ErrVehicleNotFound):
		s.Logger.Warn("BOOKING", fmt.Sprintf("Vehicle not found for ID: %d", vehicleID))
		return fmt.Errorf("%w for ID: %d", ErrVehicleNotFound, vehicleID)
	case errors.Is(err, ErrVehicleServiceUnavailable):
		s.Logger.Error("BOOKING", fmt.Sprintf("Vehicle verification failed for ID %d: %v", vehicleID, err))
		return err
	default:
		s.Logger.Error("BOOKING", fmt.Sprintf("Vehicle verification failed for ID %d: %v", vehicleID, err))
		return fmt.Errorf("%w: %v", ErrVehicleServiceUnavailable, err)
	}
}

func (s *BookingService) allocateSlot(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "booking.allocate_slot")
	defer span.End()

	start := time.Now()
	slotID, err := s.Slots.AllocateSlot(ctx)
	s.observeGateway("workshop", err, start)
	if err != nil {
		s.Logger.Error("BOOKING", fmt.Sprintf("Slot allocation failed: %v", err))
		return 0, err
	}

	s.Logger.Info("BOOKING", fmt.Sprintf("Slot allocated successfully with ID: %d", slotID))
	return slotID, nil
}

// settlePayment moves a persisted PENDING booking to CONFIRMED or FAILED. Call errors,
// empty responses and non-success statuses all end in FAILED.
func (s *BookingService) settlePayment(ctx context.Context, booking *models.Booking) error {
	ctx, span := s.tracer.Start(ctx, "booking.charge")
	defer span.End()

	start := time.Now()
	resp, err := s.Payments.Charge(ctx, models.PaymentRequest{
		Amount:    booking.Amount,
		BookingID: booking.ID,
	})
	s.observeGateway("payment", err, start)

	switch {
	case err != nil:
		span.RecordError(err)
		s.Logger.Error("PAYMENT", fmt.Sprintf("Payment service call failed for booking %d: %v", booking.ID, err))
		return advance(booking, models.StatusFailed)
	case resp == nil:
		s.Logger.Error("PAYMENT", fmt.Sprintf("Payment response was empty for booking ID: %d", booking.ID))
		return advance(booking, models.StatusFailed)
	case resp.Succeeded():
		if err := advance(booking, models.StatusConfirmed); err != nil {
			return err
		}
		paymentID := resp.ID
		booking.PaymentID = &paymentID
		s.Logger.Info("PAYMENT", fmt.Sprintf("Payment successful for booking ID: %d, payment ID: %d", booking.ID, paymentID))
		return nil
	default:
		s.Logger.Warn("PAYMENT", fmt.Sprintf("Payment failed for booking ID: %d with status %q", booking.ID, resp.Status))
		return advance(booking, models.StatusFailed)
	}
}

// ---------------- READ / ADMIN ----------------

func (s *BookingService) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	s.Logger.Debug("BOOKING", fmt.Sprintf("Fetching booking ID: %d", id))
	booking, err := s.Store.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && booking == nil) {
		return nil, fmt.Errorf("%w with ID: %d", ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	return booking, nil
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	s.Logger.Debug("BOOKING", "Fetching all bookings")
	bookings, err := s.Store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// UpdateBookingStatus is an administrative override: any status in the vocabulary is
// accepted regardless of the current one.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int64, status string) (*models.Booking, error) {
	s.Logger.Info("BOOKING", fmt.Sprintf("Updating booking ID %d status to %s", id, status))

	booking, err := s.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := models.ParseBookingStatus(status)
	if err != nil {
		s.Logger.Error("BOOKING", fmt.Sprintf("Invalid booking status value: %s", status))
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	booking.Status = newStatus
	if err := s.Store.Update(ctx, booking); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w with ID: %d", ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("failed to update booking %d: %w", id, err)
	}

	s.publish(ctx, models.EventBookingStatusUpdated, booking)
	s.Logger.LogBooking("STATUS", id, fmt.Sprintf("Booking status updated to %s", newStatus))
	return booking, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	s.Logger.Info("BOOKING", fmt.Sprintf("Deleting booking ID: %d", id))

	booking, err := s.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w with ID: %d", ErrBookingNotFound, id)
		}
		return fmt.Errorf("failed to delete booking %d: %w", id, err)
	}

	s.publish(ctx, models.EventBookingDeleted, booking)
	s.Logger.LogBooking("DELETE", id, "Booking deleted successfully")
	return nil
}

// ---------------- HELPERS ----------------

// publish is best effort: the booking is already persisted, so a broker failure is only logged.
func (s *BookingService) publish(ctx context.Context, eventType models.BookingEventType, booking *models.Booking) {
	if s.Events == nil {
		return
	}
	event := models.NewBookingEvent(eventType, *booking, s.now())
	if err := s.Events.PublishBookingEvent(ctx, event); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s for booking %d: %v", eventType, booking.ID, err))
	}
}

func (s *BookingService) abort(span trace.Span, outcome string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.observeOutcome(outcome)
	return err
}

func (s *BookingService) observeOutcome(outcome string) {
	if s.Metrics != nil {
		s.Metrics.ObserveOutcome(outcome)
	}
}

func (s *BookingService) observeGateway(gateway string, err error, start time.Time) {
	if s.Metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.Metrics.ObserveGatewayCall(gateway, result, time.Since(start).Seconds())
}

func outcomeFor(err error) string {
	switch {
	case IsUnavailable(err):
		return OutcomeUnavailable
	case IsNotFound(err), IsValidation(err):
		return OutcomeRejected
	default:
		return OutcomeInternal
	}
}
