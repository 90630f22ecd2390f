package domain

// Society is the top-level tenant owning buildings, members and records.
type Society struct {
	Base
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Address            string `json:"address,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	Pincode            string `json:"pincode,omitempty"`
	ContactEmail       string `json:"contactEmail,omitempty"`
	ContactPhone       string `json:"contactPhone,omitempty"`
	Status             string `json:"status,omitempty"`
}

func (s Society) StatusValue() string  { return s.Status }
func (s Society) SearchText() []string { return []string{s.Name, s.City, s.Address} }

// Building is a physical structure under a society. Blocks, amenities and
// parking are children of a building.
type Building struct {
	Base
	Name        string `json:"name"`
	Society     *Ref   `json:"society,omitempty"`
	Floors      int    `json:"floors,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (b Building) StatusValue() string  { return b.Status }
func (b Building) SearchText() []string { return []string{b.Name, b.Description} }

const (
	BlockActive   = "active"
	BlockInactive = "inactive"
)

// Block is a subdivision of a building, such as a tower or wing.
type Block struct {
	Base
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Building    *Ref   `json:"building,omitempty"`
	Floors      int    `json:"floors,omitempty"`
	TotalUnits  int    `json:"totalUnits,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (b Block) StatusValue() string  { return b.Status }
func (b Block) SearchText() []string { return []string{b.Name, b.Description} }

const (
	AmenityActive   = "active"
	AmenityInactive = "inactive"
)

type Amenity struct {
	Base
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Building        *Ref    `json:"building,omitempty"`
	Capacity        int     `json:"capacity,omitempty"`
	BookingRequired bool    `json:"bookingRequired,omitempty"`
	OpenTime        string  `json:"openTime,omitempty"`
	CloseTime       string  `json:"closeTime,omitempty"`
	Fee             float64 `json:"fee,omitempty"`
	Status          string  `json:"status,omitempty"`
}

func (a Amenity) StatusValue() string  { return a.Status }
func (a Amenity) SearchText() []string { return []string{a.Name, a.Description} }

const (
	ParkingAvailable   = "available"
	ParkingUnavailable = "unavailable"
	ParkingArchived    = "archived"
)

type Parking struct {
	Base
	Name        string `json:"name,omitempty"`
	SlotNumber  string `json:"slotNumber,omitempty"`
	Description string `json:"description,omitempty"`
	VehicleType string `json:"vehicleType,omitempty"`
	Building    *Ref   `json:"building,omitempty"`
	Block       *Ref   `json:"block,omitempty"`
	Unit        *Ref   `json:"unit,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (p Parking) StatusValue() string  { return p.Status }
func (p Parking) SearchText() []string { return []string{p.Name, p.SlotNumber, p.Description} }
