package models

import "time"

// ItemRequest is a user's ask for an item that is not in the catalog yet.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
}
