package db_models

import (
	"encoding/json"

	"github.com/lib/pq"
)

// Session phases. A session moves editing -> generating -> complete; a failed
// generation drops it back to editing with the errors accumulated.
const (
	PhaseEditing    = "editing"
	PhaseGenerating = "generating"
	PhaseComplete   = "complete"
)

// TripSession is one planning thread: the intake parameters, the discovered
// and user-edited location lists, and the generated itinerary, stored as
// jsonb snapshots so regeneration never mutates a published itinerary.
type TripSession struct {
	BaseModel
	Destination string
	NumDays     int
	TravelStyle string
	Interests   pq.StringArray `gorm:"type:text[]"`
	Constraints pq.StringArray `gorm:"type:text[]"`
	Notes       string

	Phase            string          `gorm:"default:editing"`
	DraftLocations   json.RawMessage `gorm:"type:jsonb"`
	FinalLocations   json.RawMessage `gorm:"type:jsonb"`
	FinalItinerary   json.RawMessage `gorm:"type:jsonb"`
	ValidationErrors pq.StringArray  `gorm:"type:text[]"`
}
