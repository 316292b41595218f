package domain

// Garage is a depot that buses are assigned to. Reference data, seeded by
// migration and read-only from the core's perspective.
type Garage struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"` // Number of buses the garage can hold
	Address  string `json:"address"`
}
