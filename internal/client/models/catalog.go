package models

// Temple is a heritage site with its own collection of artifacts.
type Temple struct {
	TempleID           ID     `json:"templeID"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
	LocationURL        string `json:"locationUrl,omitempty"`
	FunfactTitle       string `json:"funfactTitle,omitempty"`
	FunfactDescription string `json:"funfactDescription,omitempty"`
}

type Artifact struct {
	ArtifactID         ID     `json:"artifactID"`
	TempleID           ID     `json:"templeID"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
	LocationURL        string `json:"locationUrl,omitempty"`
	FunfactTitle       string `json:"funfactTitle,omitempty"`
	FunfactDescription string `json:"funfactDescription,omitempty"`
	AdditionalInfo     string `json:"additionalInfo,omitempty"`
	DetailPeriod       string `json:"detailPeriod,omitempty"`
	DetailMaterial     string `json:"detailMaterial,omitempty"`
	DetailSize         string `json:"detailSize,omitempty"`
	DetailStyle        string `json:"detailStyle,omitempty"`

	// Local reading state, not sent by the backend.
	Bookmarked bool `json:"-"`
	Read       bool `json:"-"`
}

// Ticket is an entrance ticket offered for a temple.
type Ticket struct {
	TicketID    ID      `json:"ticketID"`
	TempleID    ID      `json:"templeID"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Temple      *Temple `json:"Temple,omitempty"`
}

// Transaction records a ticket purchase.
type Transaction struct {
	TransactionID  ID           `json:"transactionID"`
	TicketID       ID           `json:"ticketID,omitempty"`
	TicketQuantity int          `json:"ticketQuantity,omitempty"`
	ValidDate      string       `json:"validDate,omitempty"`
	TotalAmount    float64      `json:"totalAmount"`
	Status         string       `json:"status"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	User           *UserProfile `json:"user,omitempty"`
	Ticket         *Ticket      `json:"Ticket,omitempty"`
}

// OwnedTicket is a purchased ticket redeemable at the temple.
type OwnedTicket struct {
	OwnedTicketID ID      `json:"ownedTicketID"`
	UniqueCode    string  `json:"uniqueCode"`
	UsageStatus   string  `json:"usageStatus"`
	ValidDate     string  `json:"validDate,omitempty"`
	Ticket        *Ticket `json:"Ticket,omitempty"`
}

// Purchase is the body of a ticket purchase.
type Purchase struct {
	TicketID       ID     `json:"ticketID"`
	TicketQuantity int    `json:"ticketQuantity"`
	ValidDate      string `json:"validDate"`
}

// Prediction is what the recognition service says about a scanned photo.
type Prediction struct {
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
}
