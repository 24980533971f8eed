package models

import "time"

// TeamMember is the model for the 'team_members' table
type TeamMember struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Position     string    `json:"position" db:"position"`
	RoleType     string    `json:"roleType" db:"role_type"`
	Bio          string    `json:"bio" db:"bio"`
	Image        string    `json:"image" db:"image"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	FacebookURL  string    `json:"facebookUrl" db:"facebook_url"`
	TwitterURL   string    `json:"twitterUrl" db:"twitter_url"`
	LinkedinURL  string    `json:"linkedinUrl" db:"linkedin_url"`
	InstagramURL string    `json:"instagramUrl" db:"instagram_url"`
	SortOrder    int       `json:"order" db:"sort_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	IsFounder    bool      `json:"isFounder" db:"is_founder"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// --- Returns page ---

type PolicyPoint struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Icon        string `json:"icon" db:"icon"`
	SortOrder   int    `json:"order" db:"sort_order"`
	IsActive    bool   `json:"isActive" db:"is_active"`
}

type ReturnStep struct {
	ID          int64  `json:"id" db:"id"`
	StepNumber  int    `json:"stepNumber" db:"step_number"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Icon        string `json:"icon" db:"icon"`
	SortOrder   int    `json:"order" db:"sort_order"`
	IsActive    bool   `json:"isActive" db:"is_active"`
}

// EligibilityItem.Type is either "eligible" or "not_eligible".
type EligibilityItem struct {
	ID        int64  `json:"id" db:"id"`
	Text      string `json:"text" db:"text"`
	Type      string `json:"type" db:"type"`
	SortOrder int    `json:"order" db:"sort_order"`
	IsActive  bool   `json:"isActive" db:"is_active"`
}

type RefundMethod struct {
	ID             int64  `json:"id" db:"id"`
	PaymentMethod  string `json:"paymentMethod" db:"payment_method"`
	RefundMethod   string `json:"refundMethod" db:"refund_method"`
	ProcessingTime string `json:"processingTime" db:"processing_time"`
	SortOrder      int    `json:"order" db:"sort_order"`
	IsActive       bool   `json:"isActive" db:"is_active"`
}

type ReturnReason struct {
	ID        int64  `json:"id" db:"id"`
	Reason    string `json:"reason" db:"reason"`
	SortOrder int    `json:"order" db:"sort_order"`
	IsActive  bool   `json:"isActive" db:"is_active"`
}

// Return request types.
const (
	ReturnRefund        = "refund"
	ReturnSizeExchange  = "size_exchange"
	ReturnColorExchange = "color_exchange"
)

// ReturnRequest is the model for the 'return_requests' table
type ReturnRequest struct {
	ID                int64     `json:"id" db:"id"`
	OrderNumber       string    `json:"orderNumber" db:"order_number"`
	CustomerEmail     string    `json:"customerEmail" db:"customer_email"`
	ReturnType        string    `json:"returnType" db:"return_type"`
	Reason            string    `json:"reason" db:"reason"`
	AdditionalDetails string    `json:"additionalDetails" db:"additional_details"`
	Status            string    `json:"status" db:"status"` // pending, processing, approved, rejected, completed
	AgreedToTerms     bool      `json:"agreedToTerms" db:"agreed_to_terms"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// --- Contact page ---

type ContactInfo struct {
	ID        int64  `json:"id" db:"id"`
	Type      string `json:"type" db:"type"`
	Title     string `json:"title" db:"title"`
	Content   string `json:"content" db:"content"`
	Icon      string `json:"icon" db:"icon"`
	SortOrder int    `json:"order" db:"sort_order"`
	IsActive  bool   `json:"isActive" db:"is_active"`
}

type SocialMedia struct {
	ID        int64  `json:"id" db:"id"`
	Platform  string `json:"platform" db:"platform"`
	URL       string `json:"url" db:"url"`
	IconClass string `json:"iconClass" db:"icon_class"`
	SortOrder int    `json:"order" db:"sort_order"`
	IsActive  bool   `json:"isActive" db:"is_active"`
}

// ContactSubjects lists the accepted ContactMessage.Subject values with their labels.
var ContactSubjects = []struct {
	Value string `json:"value"`
	Label string `json:"label"`
}{
	{"general", "General Inquiry"},
	{"product", "Product Question"},
	{"order", "Order Issue"},
	{"return", "Return Request"},
	{"complaint", "Complaint"},
	{"compliment", "Compliment"},
	{"other", "Other"},
}

// IsContactSubject reports whether s is a known subject value.
func IsContactSubject(s string) bool {
	for _, cs := range ContactSubjects {
		if cs.Value == s {
			return true
		}
	}
	return false
}

// ContactMessage is the model for the 'contact_messages' table
type ContactMessage struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Subject    string    `json:"subject" db:"subject"`
	Message    string    `json:"message" db:"message"`
	IsResolved bool      `json:"isResolved" db:"is_resolved"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// BusinessHours times are "HH:MM:SS" strings as MySQL returns TIME columns.
type BusinessHours struct {
	ID          int64  `json:"id" db:"id"`
	Day         string `json:"day" db:"day"`
	OpeningTime string `json:"openingTime" db:"opening_time"`
	ClosingTime string `json:"closingTime" db:"closing_time"`
	IsClosed    bool   `json:"isClosed" db:"is_closed"`
	SortOrder   int    `json:"order" db:"sort_order"`
}
