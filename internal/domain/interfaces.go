package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the persistence port for the marketplace store.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error)

	// Items
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	ItemExists(ctx context.Context, id int64) (bool, error)
	GetUserItems(ctx context.Context, ownerID int64, from, size int) ([]models.Item, error)
	GetOwnerItemIDs(ctx context.Context, ownerID int64) ([]int64, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]models.Item, error)
	GetItemsByRequestID(ctx context.Context, requestID int64) ([]models.Item, error)

	// Bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	BookingExists(ctx context.Context, id int64) (bool, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	DecideBooking(ctx context.Context, id int64, status string) error
	DeleteBooking(ctx context.Context, id int64) error
	GetUserBookings(ctx context.Context, bookerID int64, state string, now time.Time, from, size int) ([]models.Booking, error)
	GetOwnerBookings(ctx context.Context, itemIDs []int64, state string, now time.Time, from, size int) ([]models.Booking, error)
	CountElapsedBookings(ctx context.Context, itemID, userID int64, now time.Time) (int64, error)
	GetApprovedBookingsForItems(ctx context.Context, itemIDs []int64) ([]models.Booking, error)

	// Item requests
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	UpdateRequest(ctx context.Context, request *models.ItemRequest) error
	DeleteRequest(ctx context.Context, id int64) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
	GetUserRequests(ctx context.Context, requestorID int64) ([]models.ItemRequest, error)
	GetOtherUsersRequests(ctx context.Context, requestorID int64, from, size int) ([]models.ItemRequest, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	GetCommentByID(ctx context.Context, id int64) (*models.Comment, error)
	GetCommentsForItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error)
}

// EventPublisher pushes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
