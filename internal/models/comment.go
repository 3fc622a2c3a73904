package models

import "time"

// Comment is feedback left on an item by a user who already rented it.
type Comment struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	ItemID   int64     `json:"item_id"`
	AuthorID int64     `json:"author_id"`
	Created  time.Time `json:"created"`
}
