package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/validation"

	"github.com/rs/zerolog"
)

// ItemService manages listings and the comments left on them.
type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// ItemInput carries create/update fields. Nil pointers on update mean
// "leave unchanged".
type ItemInput struct {
	Name        *string
	Description *string
	Available   *bool
	RequestID   *int64
}

func (s *ItemService) Create(ctx context.Context, input ItemInput, userID int64) (*models.Item, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	var name, description string
	if input.Name != nil {
		name = *input.Name
	}
	if input.Description != nil {
		description = *input.Description
	}
	if err := validation.Item(name, description, input.Available); err != nil {
		return nil, err
	}

	if input.RequestID != nil {
		exists, err := s.repo.RequestExists(ctx, *input.RequestID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.E(domain.KindNotFound, "request %d not found", *input.RequestID)
		}
	}

	item := &models.Item{
		Name:        name,
		Description: description,
		Available:   *input.Available,
		OwnerID:     userID,
		RequestID:   input.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", userID).Msg("item created")
	return item, nil
}

// Update applies a partial update; only the owner may change an item.
func (s *ItemService) Update(ctx context.Context, input ItemInput, itemID, userID int64) (*models.Item, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, domain.E(domain.KindOwnershipMismatch, "only the owner can update an item")
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", itemID).Msg("item updated")
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, itemID, userID int64) error {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return domain.E(domain.KindOwnershipMismatch, "only the owner can delete an item")
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	s.logger.Info().Int64("item_id", itemID).Msg("item deleted")
	return nil
}

// FindByID returns the item with its comments. The owner additionally sees
// the last and next approved booking.
func (s *ItemService) FindByID(ctx context.Context, userID, itemID int64) (*ItemView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	view := newItemView(item)
	if err := s.attachComments(ctx, view); err != nil {
		return nil, err
	}
	if item.OwnerID == userID {
		if err := s.attachBookings(ctx, view); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// FindUserItems lists the owner's items with comments and booking projections.
func (s *ItemService) FindUserItems(ctx context.Context, userID int64, from, size int) ([]ItemView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if err := validation.Pagination(from, size); err != nil {
		return nil, err
	}

	items, err := s.repo.GetUserItems(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for i := range items {
		view := newItemView(&items[i])
		if err := s.attachComments(ctx, view); err != nil {
			return nil, err
		}
		if err := s.attachBookings(ctx, view); err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Search matches available items by case-insensitive substring on name or
// description. Blank text returns an empty list without touching storage.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	if err := validation.Pagination(from, size); err != nil {
		return nil, err
	}

	items, err := s.repo.SearchItems(ctx, text, from, size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// AddComment persists feedback; the author must have a booking on the item
// whose start time has elapsed.
func (s *ItemService) AddComment(ctx context.Context, itemID, userID int64, text string) (*CommentView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}
	if err := validation.CommentText(text); err != nil {
		return nil, err
	}

	now := time.Now()
	count, err := s.repo.CountElapsedBookings(ctx, itemID, userID, now)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.E(domain.KindNotBookedYet, "user %d has not rented item %d yet", userID, itemID)
	}

	comment := &models.Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: userID,
		Created:  now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Msg("comment created")
	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: userID}
		if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}

	return &CommentView{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    comment.Created,
	}, nil
}

// UpdateComment lets the author edit the text.
func (s *ItemService) UpdateComment(ctx context.Context, itemID, commentID, userID int64, text string) (*CommentView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, domain.E(domain.KindOwnershipMismatch, "only the author can edit a comment")
	}
	if err := validation.CommentText(text); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CommentView{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    comment.Created,
	}, nil
}

// DeleteComment lets the author remove the comment.
func (s *ItemService) DeleteComment(ctx context.Context, itemID, commentID, userID int64) error {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return err
	}

	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return domain.E(domain.KindOwnershipMismatch, "only the author can delete a comment")
	}
	return s.repo.DeleteComment(ctx, commentID)
}

func (s *ItemService) attachComments(ctx context.Context, view *ItemView) error {
	comments, err := s.repo.GetCommentsForItems(ctx, []int64{view.ID})
	if err != nil {
		return err
	}

	authorNames := make(map[int64]string)
	for i := range comments {
		comment := &comments[i]
		name, ok := authorNames[comment.AuthorID]
		if !ok {
			author, err := s.repo.GetUserByID(ctx, comment.AuthorID)
			if err != nil {
				return err
			}
			name = author.Name
			authorNames[comment.AuthorID] = name
		}
		view.Comments = append(view.Comments, CommentView{
			ID:         comment.ID,
			Text:       comment.Text,
			AuthorName: name,
			Created:    comment.Created,
		})
	}
	return nil
}

// attachBookings fills the owner-only last/next approved booking projections.
func (s *ItemService) attachBookings(ctx context.Context, view *ItemView) error {
	bookings, err := s.repo.GetApprovedBookingsForItems(ctx, []int64{view.ID})
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range bookings {
		booking := &bookings[i]
		ref := &BookingRef{ID: booking.ID, BookerID: booking.BookerID, Start: booking.Start, End: booking.End}
		if booking.Start.Before(now) {
			if view.LastBooking == nil || booking.Start.After(view.LastBooking.Start) {
				view.LastBooking = ref
			}
		} else {
			if view.NextBooking == nil || booking.Start.Before(view.NextBooking.Start) {
				view.NextBooking = ref
			}
		}
	}
	return nil
}
