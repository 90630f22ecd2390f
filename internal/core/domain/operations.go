package domain

const (
	NoticeDraft     = "draft"
	NoticePublished = "published"
	NoticeArchived  = "archived"
)

type Notice struct {
	Base
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Society     *Ref   `json:"society,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (n Notice) StatusValue() string  { return n.Status }
func (n Notice) SearchText() []string { return []string{n.Title, n.Description} }

const (
	BillPending   = "pending"
	BillPaid      = "paid"
	BillOverdue   = "overdue"
	BillCancelled = "cancelled"
)

type Bill struct {
	Base
	BillNumber  string  `json:"billNumber,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Member      *Ref    `json:"member,omitempty"`
	Unit        *Ref    `json:"unit,omitempty"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"dueDate,omitempty"`
	PaidAt      string  `json:"paidAt,omitempty"`
	Status      string  `json:"status,omitempty"`
}

func (b Bill) StatusValue() string  { return b.Status }
func (b Bill) SearchText() []string { return []string{b.Title, b.BillNumber, b.Description} }

const (
	ComplaintOpen       = "open"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
	ComplaintClosed     = "closed"
)

type Complaint struct {
	Base
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	RaisedBy    *Ref   `json:"raisedBy,omitempty"`
	Unit        *Ref   `json:"unit,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (c Complaint) StatusValue() string  { return c.Status }
func (c Complaint) SearchText() []string { return []string{c.Title, c.Description} }
