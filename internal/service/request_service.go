package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/validation"

	"github.com/rs/zerolog"
)

// RequestService manages item requests: asks for items not yet in the catalog.
type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, description string, userID int64) (*RequestView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if err := validation.RequestDescription(description); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: userID,
		Created:     time.Now(),
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requestor_id", userID).Msg("item request created")
	return &RequestView{ID: request.ID, Description: request.Description, Created: request.Created, Items: []models.Item{}}, nil
}

func (s *RequestService) Update(ctx context.Context, description string, userID, requestID int64) (*RequestView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequestorID != userID {
		return nil, domain.E(domain.KindOwnershipMismatch, "only the requestor can update a request")
	}
	if err := validation.RequestDescription(description); err != nil {
		return nil, err
	}

	request.Description = description
	if err := s.repo.UpdateRequest(ctx, request); err != nil {
		return nil, err
	}
	return s.toView(ctx, request)
}

func (s *RequestService) Delete(ctx context.Context, requestID, userID int64) error {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.RequestorID != userID {
		return domain.E(domain.KindOwnershipMismatch, "only the requestor can delete a request")
	}

	if err := s.repo.DeleteRequest(ctx, requestID); err != nil {
		return err
	}
	s.logger.Info().Int64("request_id", requestID).Msg("item request deleted")
	return nil
}

// FindByID returns the request with the items created in response to it.
func (s *RequestService) FindByID(ctx context.Context, requestID, userID int64) (*RequestView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.toView(ctx, request)
}

// FindUserRequests lists the caller's own requests, newest first.
func (s *RequestService) FindUserRequests(ctx context.Context, userID int64) ([]RequestView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetUserRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, requests)
}

// FindAllRequests lists other users' requests, newest first, paginated.
func (s *RequestService) FindAllRequests(ctx context.Context, userID int64, from, size int) ([]RequestView, error) {
	if err := ensureUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	if err := validation.Pagination(from, size); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetOtherUsersRequests(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, requests)
}

func (s *RequestService) toView(ctx context.Context, request *models.ItemRequest) (*RequestView, error) {
	items, err := s.repo.GetItemsByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return &RequestView{
		ID:          request.ID,
		Description: request.Description,
		Created:     request.Created,
		Items:       items,
	}, nil
}

func (s *RequestService) toViews(ctx context.Context, requests []models.ItemRequest) ([]RequestView, error) {
	views := make([]RequestView, 0, len(requests))
	for i := range requests {
		view, err := s.toView(ctx, &requests[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
