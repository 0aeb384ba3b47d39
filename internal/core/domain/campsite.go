package domain

import "time"

// Campsite is a user-entered campsite record in the persisted store. The
// DatabaseStopSource maps these into Stops during planning.
type Campsite struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    GeoPoint  `json:"location"`
	Description string    `json:"description,omitempty"`
	Features    []string  `json:"features,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToStop converts a persisted campsite into a planning candidate. The
// distance annotations are filled in by the source that performs the
// proximity filtering.
func (c *Campsite) ToStop() Stop {
	return Stop{
		ID:         "db:" + c.ID,
		Name:       c.Name,
		Type:       StopCampsite,
		Location:   c.Location,
		Provenance: ProvenancePersisted,
		Details: &StopDetails{
			Description: c.Description,
			Features:    c.Features,
			Images:      c.Images,
		},
	}
}
