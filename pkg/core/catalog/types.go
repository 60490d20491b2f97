package catalog

// Product is a row of the products table.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	BasePrice   float64 `json:"base_price"`
	Description string  `json:"description"`
}

// productRow is the column subset fetched for the menu.
type productRow struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	BasePrice   float64 `json:"base_price"`
	Description string  `json:"description"`
}

// MenuItem is the menu projection handed to the model.
type MenuItem struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Event is a row of the events table.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Store is a row of the stores table. Latitude and longitude are pointers
// because older rows carry their position only inside MapsURL.
type Store struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	District     string   `json:"district,omitempty"`
	Province     string   `json:"province,omitempty"`
	Category     string   `json:"category"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	MapsURL      string   `json:"maps_url,omitempty"`
}
