package models

import "time"

// Booking is a request to rent an item for the [Start, End) window.
type Booking struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"item_id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
}
