package service

import (
	"time"

	"shareit/internal/models"
)

// UserRef is the booker projection inside a booking view.
type UserRef struct {
	ID int64 `json:"id"`
}

// ItemRef is the item projection inside a booking view.
type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingView is the booking response shape with booker and item expanded.
type BookingView struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Booker UserRef   `json:"booker"`
	Item   ItemRef   `json:"item"`
}

// BookingRef is the short booking projection attached to an owner's item view.
type BookingRef struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentView carries the author display name alongside the comment.
type CommentView struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemView is the item response shape. LastBooking and NextBooking are filled
// only for the item's owner.
type ItemView struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Available   bool          `json:"available"`
	RequestID   *int64        `json:"requestId,omitempty"`
	LastBooking *BookingRef   `json:"lastBooking,omitempty"`
	NextBooking *BookingRef   `json:"nextBooking,omitempty"`
	Comments    []CommentView `json:"comments"`
}

// RequestView is the item-request response shape with the items created in
// response to it.
type RequestView struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Created     time.Time     `json:"created"`
	Items       []models.Item `json:"items"`
}

func newItemView(item *models.Item) *ItemView {
	return &ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    []CommentView{},
	}
}

func newBookingView(booking *models.Booking, itemName string) *BookingView {
	return &BookingView{
		ID:     booking.ID,
		Start:  booking.Start,
		End:    booking.End,
		Status: booking.Status,
		Booker: UserRef{ID: booking.BookerID},
		Item:   ItemRef{ID: booking.ItemID, Name: itemName},
	}
}
