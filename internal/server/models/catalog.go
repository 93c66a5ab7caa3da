package models

import "time"

type Temple struct {
	TempleID           int64  `json:"templeID"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	ImageURL           string `json:"imageUrl,omitempty"`
	LocationURL        string `json:"locationUrl,omitempty"`
	FunfactTitle       string `json:"funfactTitle,omitempty"`
	FunfactDescription string `json:"funfactDescription,omitempty"`
}

type Artifact struct {
	ArtifactID         int64  `json:"artifactID"`
	TempleID           int64  `json:"templeID"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	ImageURL           string `json:"imageUrl,omitempty"`
	LocationURL        string `json:"locationUrl,omitempty"`
	FunfactTitle       string `json:"funfactTitle,omitempty"`
	FunfactDescription string `json:"funfactDescription,omitempty"`
	AdditionalInfo     string `json:"additionalInfo,omitempty"`
	DetailPeriod       string `json:"detailPeriod,omitempty"`
	DetailMaterial     string `json:"detailMaterial,omitempty"`
	DetailSize         string `json:"detailSize,omitempty"`
	DetailStyle        string `json:"detailStyle,omitempty"`
}

type Ticket struct {
	TicketID    int64   `json:"ticketID"`
	TempleID    int64   `json:"templeID"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Temple      *Temple `json:"Temple,omitempty"`
}

type Transaction struct {
	TransactionID  int64     `json:"transactionID"`
	UserID         int64     `json:"userID"`
	TicketID       int64     `json:"ticketID"`
	TicketQuantity int       `json:"ticketQuantity"`
	ValidDate      string    `json:"validDate"`
	TotalAmount    float64   `json:"totalAmount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	User           *User     `json:"user,omitempty"`
	Ticket         *Ticket   `json:"Ticket,omitempty"`
}

type OwnedTicket struct {
	OwnedTicketID int64   `json:"ownedTicketID"`
	UserID        int64   `json:"userID"`
	TransactionID int64   `json:"transactionID"`
	UniqueCode    string  `json:"uniqueCode"`
	UsageStatus   string  `json:"usageStatus"`
	ValidDate     string  `json:"validDate"`
	Ticket        *Ticket `json:"Ticket,omitempty"`
}

const (
	TransactionPaid = "success"
	TicketUnused    = "Belum Digunakan"
)
