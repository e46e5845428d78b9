// Package destinations implements the tourist-destination catalog: public
// browsing of destinations and categories, admin-only mutation.
package destinations

import "time"

// Destination is a catalog entry with the names of its categories attached.
type Destination struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category is a destination category such as "Playa" or "Montaña".
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateDestinationRequest is the payload for POST /destinations.
type CreateDestinationRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	CategoryIDs []int   `json:"category_ids,omitempty"`
}

// UpdateDestinationRequest is the partial-update payload for
// PUT /destinations/{id}. Nil leaves a field alone; a non-nil CategoryIDs
// replaces the whole category set.
type UpdateDestinationRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	CategoryIDs *[]int  `json:"category_ids,omitempty"`
}

// IsEmpty reports whether the update would touch nothing.
func (r UpdateDestinationRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Location == nil &&
		r.ImageURL == nil && r.CategoryIDs == nil
}
