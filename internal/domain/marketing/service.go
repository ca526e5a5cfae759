// internal/domain/marketing/service.go
package marketing

import (
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

const whatsAppBaseURL = "https://wa.me/"

// Service renders marketing messages and share links
type Service struct {
	db *gorm.DB
}

// NewService creates a new marketing service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RenderRequest represents a single message render
type RenderRequest struct {
	TemplateID string            `json:"template_id" binding:"required"`
	Variables  map[string]string `json:"variables"`
	Phone      string            `json:"phone"`
}

// RenderResult is a rendered message and, when a phone was given, its share link
type RenderResult struct {
	TemplateID   string `json:"template_id"`
	Message      string `json:"message"`
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

// BroadcastRequest represents a message sent to many customers.
// An empty customer list targets every customer with a phone number.
type BroadcastRequest struct {
	TemplateID  string            `json:"template_id" binding:"required"`
	Variables   map[string]string `json:"variables"`
	CustomerIDs []uint            `json:"customer_ids"`
}

// BroadcastMessage is the per-recipient output of a broadcast
type BroadcastMessage struct {
	CustomerID   uint   `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	WhatsAppLink string `json:"whatsapp_link"`
}

// BroadcastResult lists the rendered messages and who was skipped
type BroadcastResult struct {
	TemplateID string             `json:"template_id"`
	Messages   []BroadcastMessage `json:"messages"`
	Skipped    []uint             `json:"skipped"`
}

// GetTemplates returns the message catalogue
func (s *Service) GetTemplates() []Template {
	out := make([]Template, len(catalogue))
	copy(out, catalogue)
	return out
}

// GetTemplate looks up a template by ID
func (s *Service) GetTemplate(id string) (*Template, error) {
	for i := range catalogue {
		if catalogue[i].ID == id {
			t := catalogue[i]
			return &t, nil
		}
	}
	return nil, apperror.NewNotFound("Template")
}

// Render fills a template's placeholders
func (s *Service) Render(req *RenderRequest) (*RenderResult, error) {
	tmpl, err := s.GetTemplate(req.TemplateID)
	if err != nil {
		return nil, err
	}

	result := &RenderResult{
		TemplateID: tmpl.ID,
		Message:    Fill(tmpl.Message, req.Variables),
	}
	if strings.TrimSpace(req.Phone) != "" {
		link, err := WhatsAppLink(req.Phone, result.Message)
		if err != nil {
			return nil, err
		}
		result.WhatsAppLink = link
	}
	return result, nil
}

// Broadcast renders one message per customer, filling in their name
func (s *Service) Broadcast(req *BroadcastRequest) (*BroadcastResult, error) {
	tmpl, err := s.GetTemplate(req.TemplateID)
	if err != nil {
		return nil, err
	}

	query := s.db.Model(&customer.Customer{}).Order("name ASC, id ASC")
	if len(req.CustomerIDs) > 0 {
		query = query.Where("id IN ?", req.CustomerIDs)
	} else {
		query = query.Where("phone <> ''")
	}

	var customers []customer.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}

	result := &BroadcastResult{
		TemplateID: tmpl.ID,
		Messages:   []BroadcastMessage{},
		Skipped:    []uint{},
	}

	found := make(map[uint]bool, len(customers))
	for _, c := range customers {
		found[c.ID] = true

		vars := make(map[string]string, len(req.Variables)+1)
		for k, v := range req.Variables {
			vars[k] = v
		}
		vars[VarCustomerName] = c.Name

		message := Fill(tmpl.Message, vars)
		link, err := WhatsAppLink(c.Phone, message)
		if err != nil {
			result.Skipped = append(result.Skipped, c.ID)
			continue
		}

		result.Messages = append(result.Messages, BroadcastMessage{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Phone:        c.Phone,
			Message:      message,
			WhatsAppLink: link,
		})
	}

	for _, id := range req.CustomerIDs {
		if !found[id] {
			result.Skipped = append(result.Skipped, id)
		}
	}

	return result, nil
}

// Fill replaces every {{name}} with its value. Unknown placeholders are left as-is.
func Fill(message string, vars map[string]string) string {
	if len(vars) == 0 {
		return message
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

// WhatsAppLink builds a click-to-chat link for phone with the message prefilled
func WhatsAppLink(phone, message string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", apperror.NewInvalidArgument("phone number has no digits")
	}
	return whatsAppBaseURL + digits.String() + "?text=" + url.QueryEscape(message), nil
}
