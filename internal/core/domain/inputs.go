package domain

// Create payloads. They are validated before any upstream call.

type SocietyInput struct {
	Name               string `json:"name" validate:"required,min=2,max=120"`
	RegistrationNumber string `json:"registrationNumber,omitempty" validate:"omitempty,max=60"`
	Address            string `json:"address" validate:"required,min=5,max=250"`
	City               string `json:"city" validate:"required,max=80"`
	State              string `json:"state,omitempty" validate:"omitempty,max=80"`
	Pincode            string `json:"pincode,omitempty" validate:"omitempty,numeric,len=6"`
	ContactEmail       string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone       string `json:"contactPhone,omitempty" validate:"omitempty,min=7,max=15"`
	Status             string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type BlockInput struct {
	Name        string `json:"name" validate:"required,min=1,max=80"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Building    string `json:"building" validate:"required"`
	Floors      int    `json:"floors,omitempty" validate:"gte=0,lte=300"`
	TotalUnits  int    `json:"totalUnits,omitempty" validate:"gte=0"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type AmenityInput struct {
	Name            string  `json:"name" validate:"required,min=2,max=80"`
	Description     string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Building        string  `json:"building" validate:"required"`
	Capacity        int     `json:"capacity,omitempty" validate:"gte=0"`
	BookingRequired bool    `json:"bookingRequired,omitempty"`
	OpenTime        string  `json:"openTime,omitempty" validate:"omitempty,datetime=15:04"`
	CloseTime       string  `json:"closeTime,omitempty" validate:"omitempty,datetime=15:04"`
	Fee             float64 `json:"fee,omitempty" validate:"gte=0"`
	Status          string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type ParkingInput struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=80"`
	SlotNumber  string `json:"slotNumber" validate:"required,max=20"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	VehicleType string `json:"vehicleType,omitempty" validate:"omitempty,oneof=car bike other"`
	Building    string `json:"building" validate:"required"`
	Block       string `json:"block,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=available unavailable archived"`
}

type NoticeInput struct {
	Title       string `json:"title" validate:"required,min=3,max=150"`
	Description string `json:"description" validate:"required,max=5000"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=50"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Society     string `json:"society,omitempty"`
	PublishDate string `json:"publishDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate  string `json:"expiryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

type BillInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=150"`
	BillNumber  string  `json:"billNumber,omitempty" validate:"omitempty,max=40"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Member      string  `json:"member" validate:"required"`
	Unit        string  `json:"unit,omitempty"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	DueDate     string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=pending paid overdue cancelled"`
}

type MemberInput struct {
	FirstName  string `json:"firstName" validate:"required,min=2,max=60"`
	LastName   string `json:"lastName,omitempty" validate:"omitempty,max=60"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=7,max=15"`
	MemberType string `json:"memberType,omitempty" validate:"omitempty,oneof=owner tenant family"`
	Society    string `json:"society,omitempty"`
	Building   string `json:"building,omitempty"`
	Block      string `json:"block,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type CommitteeMemberInput struct {
	Member      string `json:"member,omitempty"`
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Designation string `json:"designation" validate:"required,max=60"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,min=7,max=15"`
	TermStart   string `json:"termStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TermEnd     string `json:"termEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type EmployeeInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Designation string  `json:"designation" validate:"required,max=60"`
	Email       string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string  `json:"phone" validate:"required,min=7,max=15"`
	Salary      float64 `json:"salary,omitempty" validate:"gte=0"`
	JoiningDate string  `json:"joiningDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Society     string  `json:"society,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type ComplaintInput struct {
	Title       string `json:"title" validate:"required,min=3,max=150"`
	Description string `json:"description" validate:"required,max=5000"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=50"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	RaisedBy    string `json:"raisedBy,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=open in_progress resolved closed"`
}

// RegistrationInput is sent as multipart form fields; Documents are attached
// as files by the caller.
type RegistrationInput struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=60"`
	LastName  string `json:"lastName,omitempty" validate:"omitempty,max=60"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=7,max=15"`
	Password  string `json:"password" validate:"required,min=8"`
	Society   string `json:"society" validate:"required"`
	Building  string `json:"building,omitempty"`
	Block     string `json:"block,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

// Fields flattens the input into multipart form values.
func (r RegistrationInput) Fields() map[string]string {
	fields := map[string]string{
		"firstName": r.FirstName,
		"lastName":  r.LastName,
		"email":     r.Email,
		"phone":     r.Phone,
		"password":  r.Password,
		"society":   r.Society,
		"building":  r.Building,
		"block":     r.Block,
		"unit":      r.Unit,
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}
