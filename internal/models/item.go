package models

// Item is a thing listed for rent. RequestID links the item request it was
// created in response to, if any. Related entities are referenced by id and
// resolved through explicit repository lookups.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty"`
}
