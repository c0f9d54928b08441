package models

import "time"

// Availability states for a property listing. A successful purchase moves a
// listing to SOLD, a successful first rent payment moves it to RENTED; neither
// transition is reversed by the payment workflow.
const (
	AvailabilityAvailable = "AVAILABLE"
	AvailabilitySold      = "SOLD"
	AvailabilityRented    = "RENTED"
	AvailabilityBooked    = "BOOKED"
)

type Property struct {
	ID                 int64     `json:"id"`
	BuilderID          int64     `json:"builder_id"`
	Title              string    `json:"name"`
	PropertyType       string    `json:"type"`
	Purpose            string    `json:"purpose"`
	Price              *float64  `json:"price"`
	RentAmount         *float64  `json:"rent"`
	MinRentAmount      *float64  `json:"min_rent_amount"`
	AreaSqft           *float64  `json:"area"`
	City               string    `json:"city"`
	Area               string    `json:"locality"`
	Latitude           *float64  `json:"latitude"`
	Longitude          *float64  `json:"longitude"`
	MapLink            string    `json:"map_link"`
	PossessionYear     *int      `json:"possession"`
	ConstructionStatus string    `json:"construction_status"`
	Description        string    `json:"description"`
	Bedrooms           *int      `json:"bedrooms"`
	Bathrooms          *int      `json:"bathrooms"`
	Amenities          []string  `json:"amenities" gorm:"-"`
	Images             []string  `json:"images" gorm:"-"`
	AvailabilityStatus string    `json:"availability"`
	BrochureURL        string    `json:"brochure_url"`
	GoogleMapLink      string    `json:"google_map_link"`
	VirtualTourLink    string    `json:"virtual_tour_link"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Joined from the builder's user row on read.
	BuilderName  string `json:"builder_name,omitempty" gorm:"-"`
	BuilderEmail string `json:"builder_email,omitempty" gorm:"-"`

	// Distance from the search origin in km, set by nearby queries only.
	Distance *float64 `json:"distance,omitempty" gorm:"-"`
}

// PropertyFilter narrows a listing query. Zero values are ignored.
type PropertyFilter struct {
	Type     string `form:"type"`
	Purpose  string `form:"purpose"`
	City     string `form:"city"`
	Locality string `form:"locality"`
}
