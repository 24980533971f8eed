package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/01moynul/mayaj-store/internal/models"
)

// ContentStore backs the marketing pages and the settings singletons.
type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Singleton rows live at models.SingletonID. TEXT columns have no server default,
// so the create statements supply them.
const (
	defaultFooterDescription = "Step into style with our premium collection of footwear for every occasion."
	defaultFooterCopyright   = "Mayaj. All rights reserved."
	defaultHeroSubtitle      = "Discover the perfect blend of comfort and fashion with our exclusive shoe collection"
	defaultAboutContent      = "Mayaj is a modern e-commerce brand bringing quality products to its customers."
)

// getOrCreate reads the singleton and, when it does not exist yet, inserts it with
// defaults and reads again. INSERT IGNORE makes concurrent first reads safe.
func (s *ContentStore) getOrCreate(ctx context.Context, dest interface{}, selectQuery, insertQuery string, insertArgs ...interface{}) error {
	err := s.db.GetContext(ctx, dest, selectQuery, models.SingletonID)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(err, "load singleton")
	}
	args := append([]interface{}{models.SingletonID}, insertArgs...)
	if _, err := s.db.ExecContext(ctx, insertQuery, args...); err != nil {
		return errors.Wrap(err, "create singleton")
	}
	return errors.Wrap(s.db.GetContext(ctx, dest, selectQuery, models.SingletonID), "reload singleton")
}

// --- Site settings ---

func (s *ContentStore) SiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	var out models.SiteSettings
	err := s.getOrCreate(ctx, &out,
		`SELECT id, site_name, logo, favicon, footer_description, footer_copyright_text,
			announcement_text, announcement_enabled, updated_at
		FROM site_settings WHERE id = ?`,
		`INSERT IGNORE INTO site_settings (id, footer_description, footer_copyright_text) VALUES (?, ?, ?)`,
		defaultFooterDescription, defaultFooterCopyright)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSiteSettings overwrites the singleton, creating it when needed.
func (s *ContentStore) UpdateSiteSettings(ctx context.Context, in *models.SiteSettings) error {
	in.ID = models.SingletonID
	in.UpdatedAt = time.Now().UTC()
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO site_settings (id, site_name, logo, favicon, footer_description, footer_copyright_text,
			announcement_text, announcement_enabled, updated_at)
		VALUES (:id, :site_name, :logo, :favicon, :footer_description, :footer_copyright_text,
			:announcement_text, :announcement_enabled, :updated_at)
		ON DUPLICATE KEY UPDATE site_name = VALUES(site_name), logo = VALUES(logo), favicon = VALUES(favicon),
			footer_description = VALUES(footer_description), footer_copyright_text = VALUES(footer_copyright_text),
			announcement_text = VALUES(announcement_text), announcement_enabled = VALUES(announcement_enabled),
			updated_at = VALUES(updated_at)`, in)
	return errors.Wrap(err, "update site settings")
}

// --- Hero ---

func (s *ContentStore) HeroSection(ctx context.Context) (*models.HeroSection, error) {
	var out models.HeroSection
	err := s.getOrCreate(ctx, &out,
		`SELECT id, title, subtitle, primary_button_text, primary_button_link, secondary_button_text,
			secondary_button_link, is_active, updated_at
		FROM hero_sections WHERE id = ?`,
		`INSERT IGNORE INTO hero_sections (id, subtitle) VALUES (?, ?)`,
		defaultHeroSubtitle)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ContentStore) UpdateHeroSection(ctx context.Context, in *models.HeroSection) error {
	in.ID = models.SingletonID
	in.UpdatedAt = time.Now().UTC()
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO hero_sections (id, title, subtitle, primary_button_text, primary_button_link,
			secondary_button_text, secondary_button_link, is_active, updated_at)
		VALUES (:id, :title, :subtitle, :primary_button_text, :primary_button_link,
			:secondary_button_text, :secondary_button_link, :is_active, :updated_at)
		ON DUPLICATE KEY UPDATE title = VALUES(title), subtitle = VALUES(subtitle),
			primary_button_text = VALUES(primary_button_text), primary_button_link = VALUES(primary_button_link),
			secondary_button_text = VALUES(secondary_button_text), secondary_button_link = VALUES(secondary_button_link),
			is_active = VALUES(is_active), updated_at = VALUES(updated_at)`, in)
	return errors.Wrap(err, "update hero section")
}

// --- About ---

func (s *ContentStore) AboutSection(ctx context.Context) (*models.AboutSection, error) {
	var out models.AboutSection
	err := s.getOrCreate(ctx, &out,
		`SELECT id, title, content, is_active, updated_at FROM about_sections WHERE id = ?`,
		`INSERT IGNORE INTO about_sections (id, content) VALUES (?, ?)`,
		defaultAboutContent)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TeamMembers lists active members; founders sort after everyone else.
func (s *ContentStore) TeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	members := []models.TeamMember{}
	err := s.db.SelectContext(ctx, &members, `
		SELECT id, name, position, role_type, bio, image, email, phone, facebook_url, twitter_url,
			linkedin_url, instagram_url, sort_order, is_active, is_founder, created_at, updated_at
		FROM team_members WHERE is_active = TRUE ORDER BY is_founder, sort_order, name`)
	return members, errors.Wrap(err, "team members")
}

// --- Returns ---

func (s *ContentStore) ReturnsPageSettings(ctx context.Context) (*models.ReturnsPageSettings, error) {
	var out models.ReturnsPageSettings
	err := s.getOrCreate(ctx, &out,
		`SELECT id, header_title, header_subtitle, policy_title, process_title, detailed_policy_title,
			form_title, contact_title, contact_subtitle, is_active, updated_at
		FROM returns_page_settings WHERE id = ?`,
		`INSERT IGNORE INTO returns_page_settings (id) VALUES (?)`)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ReturnsPage bundles the lists shown on the returns page.
type ReturnsPage struct {
	PolicyPoints  []models.PolicyPoint     `json:"policyPoints"`
	Steps         []models.ReturnStep      `json:"steps"`
	Eligibility   []models.EligibilityItem `json:"eligibility"`
	RefundMethods []models.RefundMethod    `json:"refundMethods"`
	Reasons       []models.ReturnReason    `json:"reasons"`
}

func (s *ContentStore) ReturnsPageContent(ctx context.Context) (*ReturnsPage, error) {
	p := &ReturnsPage{
		PolicyPoints:  []models.PolicyPoint{},
		Steps:         []models.ReturnStep{},
		Eligibility:   []models.EligibilityItem{},
		RefundMethods: []models.RefundMethod{},
	}
	if err := s.db.SelectContext(ctx, &p.PolicyPoints,
		`SELECT id, title, description, icon, sort_order, is_active FROM policy_points
		WHERE is_active = TRUE ORDER BY sort_order`); err != nil {
		return nil, errors.Wrap(err, "policy points")
	}
	if err := s.db.SelectContext(ctx, &p.Steps,
		`SELECT id, step_number, title, description, icon, sort_order, is_active FROM return_steps
		WHERE is_active = TRUE ORDER BY step_number, sort_order`); err != nil {
		return nil, errors.Wrap(err, "return steps")
	}
	if err := s.db.SelectContext(ctx, &p.Eligibility,
		`SELECT id, text, type, sort_order, is_active FROM eligibility_items
		WHERE is_active = TRUE ORDER BY type, sort_order`); err != nil {
		return nil, errors.Wrap(err, "eligibility items")
	}
	if err := s.db.SelectContext(ctx, &p.RefundMethods,
		`SELECT id, payment_method, refund_method, processing_time, sort_order, is_active FROM refund_methods
		WHERE is_active = TRUE ORDER BY sort_order`); err != nil {
		return nil, errors.Wrap(err, "refund methods")
	}
	reasons, err := s.ReturnReasons(ctx)
	if err != nil {
		return nil, err
	}
	p.Reasons = reasons
	return p, nil
}

// ReturnReasons lists the active reasons a return request may cite.
func (s *ContentStore) ReturnReasons(ctx context.Context) ([]models.ReturnReason, error) {
	reasons := []models.ReturnReason{}
	err := s.db.SelectContext(ctx, &reasons,
		`SELECT id, reason, sort_order, is_active FROM return_reasons WHERE is_active = TRUE ORDER BY sort_order`)
	return reasons, errors.Wrap(err, "return reasons")
}

func (s *ContentStore) CreateReturnRequest(ctx context.Context, r *models.ReturnRequest) error {
	now := time.Now().UTC()
	r.Status = "pending"
	r.CreatedAt = now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO return_requests (order_number, customer_email, return_type, reason, additional_details,
			status, agreed_to_terms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OrderNumber, r.CustomerEmail, r.ReturnType, r.Reason, r.AdditionalDetails,
		r.Status, r.AgreedToTerms, now, now)
	if err != nil {
		return errors.Wrap(err, "insert return request")
	}
	r.ID, err = res.LastInsertId()
	return errors.Wrap(err, "return request id")
}

// --- Contact ---

func (s *ContentStore) ContactPageSettings(ctx context.Context) (*models.ContactPageSettings, error) {
	var out models.ContactPageSettings
	err := s.getOrCreate(ctx, &out,
		`SELECT id, header_title, header_subtitle, contact_info_title, form_title, map_title, is_active, updated_at
		FROM contact_page_settings WHERE id = ?`,
		`INSERT IGNORE INTO contact_page_settings (id) VALUES (?)`)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ContactPage bundles the lists shown on the contact page.
type ContactPage struct {
	Infos  []models.ContactInfo   `json:"contactInfos"`
	Social []models.SocialMedia   `json:"socialLinks"`
	Hours  []models.BusinessHours `json:"businessHours"`
}

func (s *ContentStore) ContactPageContent(ctx context.Context) (*ContactPage, error) {
	p := &ContactPage{Infos: []models.ContactInfo{}, Social: []models.SocialMedia{}, Hours: []models.BusinessHours{}}
	if err := s.db.SelectContext(ctx, &p.Infos,
		`SELECT id, type, title, content, icon, sort_order, is_active FROM contact_infos
		WHERE is_active = TRUE ORDER BY sort_order`); err != nil {
		return nil, errors.Wrap(err, "contact infos")
	}
	if err := s.db.SelectContext(ctx, &p.Social,
		`SELECT id, platform, url, icon_class, sort_order, is_active FROM social_media
		WHERE is_active = TRUE ORDER BY sort_order`); err != nil {
		return nil, errors.Wrap(err, "social media")
	}
	if err := s.db.SelectContext(ctx, &p.Hours,
		`SELECT id, day, opening_time, closing_time, is_closed, sort_order FROM business_hours ORDER BY sort_order`); err != nil {
		return nil, errors.Wrap(err, "business hours")
	}
	return p, nil
}

func (s *ContentStore) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, subject, message, is_resolved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?, ?)`,
		m.Name, m.Email, m.Phone, m.Subject, m.Message, now, now)
	if err != nil {
		return errors.Wrap(err, "insert contact message")
	}
	m.ID, err = res.LastInsertId()
	return errors.Wrap(err, "contact message id")
}
