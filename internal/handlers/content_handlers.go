package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/session"
)

// GetAbout is the handler for GET /about/
func (h *Handlers) GetAbout(c *gin.Context) {
	ctx := c.Request.Context()

	about, err := h.Content.AboutSection(ctx)
	if err != nil {
		h.serverError(c, "Failed to load about section", err)
		return
	}
	members, err := h.Content.TeamMembers(ctx)
	if err != nil {
		h.serverError(c, "Failed to load team", err)
		return
	}

	founders := []models.TeamMember{}
	team := []models.TeamMember{}
	for _, m := range members {
		if m.IsFounder {
			founders = append(founders, m)
		} else {
			team = append(team, m)
		}
	}

	var section *models.AboutSection
	if about.IsActive {
		section = about
	}
	renderPage(c, gin.H{
		"siteSettings": h.siteSettings(c),
		"aboutSection": section,
		"founders":     founders,
		"teamMembers":  team,
	})
}

// --- Contact ---

// ContactInput is the contact form.
type ContactInput struct {
	Name    string `form:"name" json:"name" binding:"required,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Phone   string `form:"phone" json:"phone" binding:"max=15"`
	Subject string `form:"subject,default=general" json:"subject"`
	Message string `form:"message" json:"message" binding:"required"`
}

func (in *ContactInput) Trim() {
	trimAll(&in.Name, &in.Email, &in.Phone, &in.Subject, &in.Message)
}

// GetContact is the handler for GET /contact/
func (h *Handlers) GetContact(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.Content.ContactPageSettings(ctx)
	if err != nil {
		h.serverError(c, "Failed to load contact settings", err)
		return
	}
	content, err := h.Content.ContactPageContent(ctx)
	if err != nil {
		h.serverError(c, "Failed to load contact page", err)
		return
	}
	renderPage(c, gin.H{
		"siteSettings":   h.siteSettings(c),
		"contactSection": settings,
		"contactInfo":    content.Infos,
		"socialMedia":    content.Social,
		"businessHours":  content.Hours,
		"subjectChoices": models.ContactSubjects,
	})
}

// PostContact is the handler for POST /contact/
func (h *Handlers) PostContact(c *gin.Context) {
	// 1. --- Validate ---
	var input ContactInput
	if err := bindTrimmed(c, &input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": checkout.FieldErrors(err)})
		return
	}
	if input.Subject == "" {
		input.Subject = "general"
	}
	if !models.IsContactSubject(input.Subject) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"subject": "Select a valid choice."}})
		return
	}

	// 2. --- Store ---
	msg := &models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := h.Content.CreateContactMessage(c.Request.Context(), msg); err != nil {
		h.serverError(c, "Failed to send message", err)
		return
	}

	redirectWithFlash(c, session.LevelSuccess,
		"Your message has been sent successfully! We will get back to you soon.", "/contact/")
}

// --- Returns ---

// ReturnInput is the return request form. AgreedToTerms carries the raw checkbox value.
type ReturnInput struct {
	OrderNumber       string `form:"order_number" json:"order_number" binding:"required,max=100"`
	CustomerEmail     string `form:"customer_email" json:"customer_email" binding:"required,email"`
	ReturnType        string `form:"return_type" json:"return_type" binding:"required,oneof=refund size_exchange color_exchange"`
	Reason            string `form:"reason" json:"reason" binding:"required,max=200"`
	AdditionalDetails string `form:"additional_details" json:"additional_details"`
	AgreedToTerms     string `form:"agreed_to_terms" json:"agreed_to_terms"`
}

func (in *ReturnInput) Trim() {
	trimAll(&in.OrderNumber, &in.CustomerEmail, &in.ReturnType, &in.Reason, &in.AdditionalDetails, &in.AgreedToTerms)
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// GetReturnPolicy is the handler for GET /return-policy/
func (h *Handlers) GetReturnPolicy(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.Content.ReturnsPageSettings(ctx)
	if err != nil {
		h.serverError(c, "Failed to load returns settings", err)
		return
	}
	content, err := h.Content.ReturnsPageContent(ctx)
	if err != nil {
		h.serverError(c, "Failed to load returns page", err)
		return
	}
	renderPage(c, gin.H{
		"siteSettings":     h.siteSettings(c),
		"pageSettings":     settings,
		"policyPoints":     content.PolicyPoints,
		"steps":            content.Steps,
		"eligibilityItems": content.Eligibility,
		"refundMethods":    content.RefundMethods,
		"returnReasons":    content.Reasons,
	})
}

// PostReturnPolicy is the handler for POST /return-policy/
func (h *Handlers) PostReturnPolicy(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Field rules ---
	var input ReturnInput
	fieldErrs := map[string]string{}
	if err := bindTrimmed(c, &input); err != nil {
		fieldErrs = checkout.FieldErrors(err)
	}
	if !checked(input.AgreedToTerms) {
		fieldErrs["agreed_to_terms"] = "This field is required."
	}

	// 2. --- Reason must be one of the active reasons ---
	if _, bad := fieldErrs["reason"]; !bad && input.Reason != "" {
		reasons, err := h.Content.ReturnReasons(ctx)
		if err != nil {
			h.serverError(c, "Failed to load return reasons", err)
			return
		}
		known := false
		for _, r := range reasons {
			if r.Reason == input.Reason {
				known = true
				break
			}
		}
		if !known {
			fieldErrs["reason"] = "Select a valid choice."
		}
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}

	// 3. --- Store ---
	req := &models.ReturnRequest{
		OrderNumber:       input.OrderNumber,
		CustomerEmail:     input.CustomerEmail,
		ReturnType:        input.ReturnType,
		Reason:            input.Reason,
		AdditionalDetails: input.AdditionalDetails,
		AgreedToTerms:     true,
	}
	if err := h.Content.CreateReturnRequest(ctx, req); err != nil {
		h.serverError(c, "Failed to submit return request", err)
		return
	}

	redirectWithFlash(c, session.LevelSuccess,
		"Your return request has been submitted successfully!", "/return-policy/")
}
