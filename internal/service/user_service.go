package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/validation"

	"github.com/rs/zerolog"
)

// UserService manages account registration and profiles.
type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// UserInput carries create/update fields. Nil pointers on update mean
// "leave unchanged".
type UserInput struct {
	Name  *string
	Email *string
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*models.User, error) {
	var name, email string
	if input.Name != nil {
		name = *input.Name
	}
	if input.Email != nil {
		email = *input.Email
	}
	if err := validation.User(name, email); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.E(domain.KindDuplicateEmail, "email %s is already registered", email)
	}

	user := &models.User{Name: name, Email: email}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, input UserInput, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.repo.EmailTaken(ctx, *input.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.E(domain.KindDuplicateEmail, "email %s is already registered", *input.Email)
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", userID).Msg("user updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", userID).Msg("user deleted")
	return nil
}

func (s *UserService) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
