package models

import "time"

// SingletonID is the fixed primary key of every settings row.
const SingletonID int64 = 1

// SiteSettings is the single row of 'site_settings'
type SiteSettings struct {
	ID                  int64     `json:"-" db:"id"`
	SiteName            string    `json:"siteName" db:"site_name" binding:"required,max=100"`
	Logo                *string   `json:"logo,omitempty" db:"logo"`
	Favicon             *string   `json:"favicon,omitempty" db:"favicon"`
	FooterDescription   string    `json:"footerDescription" db:"footer_description"`
	FooterCopyrightText string    `json:"footerCopyrightText" db:"footer_copyright_text"`
	AnnouncementText    string    `json:"announcementText" db:"announcement_text" binding:"max=200"`
	AnnouncementEnabled bool      `json:"announcementEnabled" db:"announcement_enabled"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// HeroSection is the single row of 'hero_sections'
type HeroSection struct {
	ID                  int64     `json:"-" db:"id"`
	Title               string    `json:"title" db:"title" binding:"required,max=200"`
	Subtitle            string    `json:"subtitle" db:"subtitle"`
	PrimaryButtonText   string    `json:"primaryButtonText" db:"primary_button_text" binding:"max=50"`
	PrimaryButtonLink   string    `json:"primaryButtonLink" db:"primary_button_link" binding:"max=200"`
	SecondaryButtonText string    `json:"secondaryButtonText" db:"secondary_button_text" binding:"max=50"`
	SecondaryButtonLink string    `json:"secondaryButtonLink" db:"secondary_button_link" binding:"max=200"`
	IsActive            bool      `json:"isActive" db:"is_active"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// AboutSection is the single row of 'about_sections'
type AboutSection struct {
	ID        int64     `json:"-" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ReturnsPageSettings is the single row of 'returns_page_settings'
type ReturnsPageSettings struct {
	ID                  int64     `json:"-" db:"id"`
	HeaderTitle         string    `json:"headerTitle" db:"header_title"`
	HeaderSubtitle      string    `json:"headerSubtitle" db:"header_subtitle"`
	PolicyTitle         string    `json:"policyTitle" db:"policy_title"`
	ProcessTitle        string    `json:"processTitle" db:"process_title"`
	DetailedPolicyTitle string    `json:"detailedPolicyTitle" db:"detailed_policy_title"`
	FormTitle           string    `json:"formTitle" db:"form_title"`
	ContactTitle        string    `json:"contactTitle" db:"contact_title"`
	ContactSubtitle     string    `json:"contactSubtitle" db:"contact_subtitle"`
	IsActive            bool      `json:"isActive" db:"is_active"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// ContactPageSettings is the single row of 'contact_page_settings'
type ContactPageSettings struct {
	ID               int64     `json:"-" db:"id"`
	HeaderTitle      string    `json:"headerTitle" db:"header_title"`
	HeaderSubtitle   string    `json:"headerSubtitle" db:"header_subtitle"`
	ContactInfoTitle string    `json:"contactInfoTitle" db:"contact_info_title"`
	FormTitle        string    `json:"formTitle" db:"form_title"`
	MapTitle         string    `json:"mapTitle" db:"map_title"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}
