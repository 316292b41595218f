// Package catalog provides the static component catalog: the reference
// data mapping component types to display names, categories, expected
// lifetimes, and average replacement costs.
package catalog

// Master describes one cataloged component type.
type Master struct {
	Type              string  // Stable type key, e.g. "brake_pad_fl"
	DisplayName       string  // Human-facing name
	Category          string  // Grouping for reporting (Tires, Brakes, Engine, Other)
	DefaultLifetimeKm float64 // Expected lifetime in kilometers
	AverageCost       float64 // Average replacement cost
	RequiresPosition  bool    // True for types mounted at a wheel position
}

// Catalog resolves component types to their master records.
type Catalog interface {
	// Lookup returns the master record for a component type. The second
	// return value is false when the catalog has no entry for the type;
	// callers must handle that case explicitly.
	Lookup(componentType string) (Master, bool)

	// Masters returns all catalog entries in a stable order.
	Masters() []Master
}

// staticCatalog is an in-memory Catalog backed by a fixed master list.
type staticCatalog struct {
	byType  map[string]Master
	ordered []Master
}

// New creates a Catalog from the given master records.
func New(masters []Master) Catalog {
	byType := make(map[string]Master, len(masters))
	ordered := make([]Master, len(masters))
	copy(ordered, masters)
	for _, m := range masters {
		byType[m.Type] = m
	}
	return &staticCatalog{byType: byType, ordered: ordered}
}

// Default returns the standard Transitland component catalog.
func Default() Catalog {
	return New(defaultMasters)
}

func (c *staticCatalog) Lookup(componentType string) (Master, bool) {
	m, ok := c.byType[componentType]
	return m, ok
}

func (c *staticCatalog) Masters() []Master {
	out := make([]Master, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// DisplayName returns the display name for a component type, falling back
// to the raw type string when the catalog has no entry. A missing catalog
// entry degrades the label, it never fails the caller.
func DisplayName(c Catalog, componentType string) string {
	if m, ok := c.Lookup(componentType); ok {
		return m.DisplayName
	}
	return componentType
}

var defaultMasters = []Master{
	// Tires
	{Type: "tire_fl", DisplayName: "Front Left Tire", Category: "Tires", DefaultLifetimeKm: 80000, AverageCost: 450, RequiresPosition: true},
	{Type: "tire_fr", DisplayName: "Front Right Tire", Category: "Tires", DefaultLifetimeKm: 80000, AverageCost: 450, RequiresPosition: true},
	{Type: "tire_rl", DisplayName: "Rear Left Tire", Category: "Tires", DefaultLifetimeKm: 80000, AverageCost: 450, RequiresPosition: true},
	{Type: "tire_rr", DisplayName: "Rear Right Tire", Category: "Tires", DefaultLifetimeKm: 80000, AverageCost: 450, RequiresPosition: true},

	// Brake pads
	{Type: "brake_pad_fl", DisplayName: "Front Left Brake Pad", Category: "Brakes", DefaultLifetimeKm: 50000, AverageCost: 350, RequiresPosition: true},
	{Type: "brake_pad_fr", DisplayName: "Front Right Brake Pad", Category: "Brakes", DefaultLifetimeKm: 50000, AverageCost: 350, RequiresPosition: true},
	{Type: "brake_pad_rl", DisplayName: "Rear Left Brake Pad", Category: "Brakes", DefaultLifetimeKm: 50000, AverageCost: 350, RequiresPosition: true},
	{Type: "brake_pad_rr", DisplayName: "Rear Right Brake Pad", Category: "Brakes", DefaultLifetimeKm: 50000, AverageCost: 350, RequiresPosition: true},

	// Rotors
	{Type: "rotor_fl", DisplayName: "Front Left Rotor", Category: "Brakes", DefaultLifetimeKm: 70000, AverageCost: 500, RequiresPosition: true},
	{Type: "rotor_fr", DisplayName: "Front Right Rotor", Category: "Brakes", DefaultLifetimeKm: 70000, AverageCost: 500, RequiresPosition: true},
	{Type: "rotor_rl", DisplayName: "Rear Left Rotor", Category: "Brakes", DefaultLifetimeKm: 70000, AverageCost: 500, RequiresPosition: true},
	{Type: "rotor_rr", DisplayName: "Rear Right Rotor", Category: "Brakes", DefaultLifetimeKm: 70000, AverageCost: 500, RequiresPosition: true},

	// Engine components
	{Type: "engine", DisplayName: "Engine", Category: "Engine", DefaultLifetimeKm: 500000, AverageCost: 25000},
	{Type: "transmission", DisplayName: "Transmission", Category: "Engine", DefaultLifetimeKm: 300000, AverageCost: 8000},
	{Type: "alternator", DisplayName: "Alternator", Category: "Engine", DefaultLifetimeKm: 150000, AverageCost: 800},

	// Other components
	{Type: "suspension", DisplayName: "Suspension System", Category: "Other", DefaultLifetimeKm: 100000, AverageCost: 2500},
	{Type: "battery", DisplayName: "Battery", Category: "Other", DefaultLifetimeKm: 60000, AverageCost: 400},
	{Type: "air_conditioning", DisplayName: "Air Conditioning", Category: "Other", DefaultLifetimeKm: 120000, AverageCost: 1500},
}
