// Package models defines the core data structures exchanged with the
// marketplace backend.
package models

// UserProfile represents the authenticated user's account record as
// returned by the backend. The backend owns it; the client only caches it.
type UserProfile struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// FullName is the user's display name.
	FullName string `json:"fullName"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Email is the user's contact address.
	Email string `json:"email"`
	// Phone is the user's contact phone number.
	Phone string `json:"phone"`
	// Address is the user's street address, used to route tradespeople.
	Address string `json:"address"`
	// EmailVerified reports whether the user has confirmed their email.
	EmailVerified bool `json:"emailVerified"`
}

// Usta represents a tradesperson category customers can request services from.
type Usta struct {
	// ID is the unique identifier for the tradesperson.
	ID string `json:"id"`
	// Name is the trade's display name.
	Name string `json:"name"`
	// ProfileImageURL points to the trade's cover image, if any.
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Soru is an intake question shown to customers when they open a request
// for a given trade.
type Soru struct {
	// ID is the unique identifier for the question.
	ID string `json:"id"`
	// Usta is the trade this question belongs to.
	Usta Usta `json:"usta"`
	// Question is the prompt text.
	Question string `json:"question"`
	// Type describes the answer widget ("text", "select", ...).
	Type string `json:"type"`
	// Options holds the choices for select-type questions.
	Options []string `json:"options"`
	// Order controls display position within the intake form.
	Order int `json:"order"`
}

// Hizmet is an entry in the service-showcase video catalog.
type Hizmet struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
}

// Offer is a price quote attached to a service request by an administrator.
type Offer struct {
	ID          string  `json:"id"`
	Price       float64 `json:"price"`
	Details     string  `json:"details"`
	CreatedDate string  `json:"createdDate"`
}

// RequestStatus enumerates the lifecycle states of a service request.
type RequestStatus string

const (
	// RequestOpen means the request is accepting offers.
	RequestOpen RequestStatus = "OPEN"
	// RequestClosedByUser means the customer closed the request.
	RequestClosedByUser RequestStatus = "CLOSED_BY_USER"
	// RequestClosedByAdmin means an administrator closed the request.
	RequestClosedByAdmin RequestStatus = "CLOSED_BY_ADMIN"
)

// ServiceRequest is a customer's request for a trade service, together with
// the offers it has received.
type ServiceRequest struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	User        UserProfile       `json:"user"`
	Category    string            `json:"category"`
	Details     map[string]string `json:"details"`
	Address     string            `json:"address"`
	CreatedDate string            `json:"createdDate"`
	Offers      []Offer           `json:"offers"`
	Status      RequestStatus     `json:"status"`
}

// Reply is a single message in the conversation attached to a request.
type Reply struct {
	ID             string `json:"id"`
	SenderUsername string `json:"senderUsername"`
	Text           string `json:"text"`
	Date           string `json:"date"`
}

// MailLog records an outbound notification mail, visible to administrators.
type MailLog struct {
	ID           string `json:"id"`
	RequestTitle string `json:"requestTitle"`
	Email        string `json:"email"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	SentDate     string `json:"sentDate"`
}

// MediaType identifies the kind of asset in a portfolio entry.
type MediaType string

const (
	// MediaImage marks an image asset.
	MediaImage MediaType = "IMAGE"
	// MediaVideo marks a video asset.
	MediaVideo MediaType = "VIDEO"
)

// PortfolioItem is a showcase entry in a tradesperson's gallery.
type PortfolioItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MediaURL    string    `json:"mediaUrl"`
	MediaType   MediaType `json:"mediaType"`
	IsActive    bool      `json:"isActive,omitempty"`
	CreatedDate string    `json:"createdDate,omitempty"`
	Usta        *Usta     `json:"usta,omitempty"`
}

// Page is one page of a server-side paginated listing.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}
