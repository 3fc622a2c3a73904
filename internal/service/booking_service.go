package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/validation"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation, owner decisions and
// filtered listings.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// ensureUser rejects anonymous callers and callers that never registered.
func ensureUser(ctx context.Context, repo domain.Repository, userID int64) error {
	if userID <= 0 {
		return domain.E(domain.KindNotAuthorized, "user is not authorized")
	}
	exists, err := repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.E(domain.KindNotFound, "user %d is not registered", userID)
	}
	return nil
}

// Create validates and persists a new WAITING booking.
// Precondition order: caller authorized and registered, item exists, item
// available, booker is not the owner, time window valid.
func (s *BookingService) Create(ctx context.Context, itemID int64, start, end *time.Time, userID int64) (*BookingView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.E(domain.KindNotAvailable, "item %d is not available for booking", itemID)
	}
	if item.OwnerID == userID {
		return nil, domain.E(domain.KindBookedByOwner, "owners cannot book their own items")
	}

	now := time.Now()
	if err := validation.BookingTimes(start, end, now); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: userID,
		Start:    start.Truncate(time.Second),
		End:      end.Truncate(time.Second),
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", itemID).
		Int64("booker_id", userID).Msg("booking created")
	s.publishEvent(events.EventBookingCreated, booking, userID)

	return newBookingView(booking, item.Name), nil
}

// ChangeStatus applies the owner's decision. Approved must be the literal
// "true" or "false". A booking already APPROVED rejects any further decision.
func (s *BookingService) ChangeStatus(ctx context.Context, bookingID int64, approved string, userID int64) (*BookingView, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, domain.E(domain.KindOwnershipMismatch, "only the item owner can decide a booking")
	}

	if err := validation.Approved(approved); err != nil {
		return nil, err
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved == "true" {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.DecideBooking(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.logger.Info().Int64("booking_id", bookingID).Str("status", status).Msg("booking decided")
	s.publishEvent(eventType, booking, userID)

	return newBookingView(booking, item.Name), nil
}

// Delete removes a booking; only the booker may do that.
func (s *BookingService) Delete(ctx context.Context, bookingID, userID int64) error {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return err
	}
	if booking.BookerID != userID {
		return domain.E(domain.KindOwnershipMismatch, "only the booker can delete a booking")
	}

	if err := s.repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	s.logger.Info().Int64("booking_id", bookingID).Msg("booking deleted")
	return nil
}

// FindByID returns the booking to its booker or the item's owner.
func (s *BookingService) FindByID(ctx context.Context, bookingID, userID int64) (*BookingView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, domain.E(domain.KindOwnershipMismatch, "booking is visible to its booker and the item owner only")
	}
	return newBookingView(booking, item.Name), nil
}

// FindUserBookings lists the caller's bookings filtered by state,
// newest-start-first, paginated with offset/limit.
func (s *BookingService) FindUserBookings(ctx context.Context, userID int64, state string, from, size int) ([]BookingView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	stateFilter, err := parseListingParams(state, from, size)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.GetUserBookings(ctx, userID, stateFilter, time.Now(), from, size)
	if err != nil {
		return nil, err
	}
	return s.toBookingViews(ctx, bookings)
}

// FindOwnerBookings lists bookings on the caller's items. The owned item id
// set is resolved first, then bookings are filtered by membership.
func (s *BookingService) FindOwnerBookings(ctx context.Context, userID int64, state string, from, size int) ([]BookingView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	stateFilter, err := parseListingParams(state, from, size)
	if err != nil {
		return nil, err
	}

	itemIDs, err := s.repo.GetOwnerItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.GetOwnerBookings(ctx, itemIDs, stateFilter, time.Now(), from, size)
	if err != nil {
		return nil, err
	}
	return s.toBookingViews(ctx, bookings)
}

func parseListingParams(state string, from, size int) (string, error) {
	stateFilter, err := models.ParseState(state)
	if err != nil {
		return "", domain.E(domain.KindInvalidPageParams, "%s", err.Error())
	}
	if err := validation.Pagination(from, size); err != nil {
		return "", err
	}
	return stateFilter, nil
}

func (s *BookingService) toBookingViews(ctx context.Context, bookings []models.Booking) ([]BookingView, error) {
	itemNames := make(map[int64]string)
	views := make([]BookingView, 0, len(bookings))

	for i := range bookings {
		booking := &bookings[i]
		name, ok := itemNames[booking.ItemID]
		if !ok {
			item, err := s.repo.GetItemByID(ctx, booking.ItemID)
			if err != nil {
				return nil, err
			}
			name = item.Name
			itemNames[booking.ItemID] = name
		}
		views = append(views, *newBookingView(booking, name))
	}
	return views, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
		ActorID:   actorID,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
