package models

import "time"

const (
	ItemAvailable = "available"
	ItemPending   = "pending"
	ItemClaimed   = "claimed"
)

// DateFoundLayout is the calendar date format of FoundItem.DateFound.
const DateFoundLayout = "2006-01-02"

var Categories = []string{
	"Electronics",
	"Clothing",
	"Bags & Backpacks",
	"Jewelry",
	"Books & Supplies",
	"Sports Equipment",
	"Keys",
	"Water Bottles",
	"Eyewear",
	"Other",
}

var Locations = []string{
	"Main Hallway",
	"Cafeteria",
	"Library",
	"Gym",
	"Gymnasium",
	"Auditorium",
	"Science Wing",
	"Math Wing",
	"English Wing",
	"Art Room",
	"Music Room",
	"Parking Lot",
	"Courtyard",
	"Restroom",
	"Office",
	"Main Office",
	"Other",
}

type FoundItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	DateFound   string    `json:"dateFound"`
	Photos      []string  `json:"photos"`
	Status      string    `json:"status"`
	SubmittedBy string    `json:"submittedBy"`
	ClaimedBy   string    `json:"claimedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
