package contacts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/portfolio/pkg"
)

const (
	StatusNoStatus  = "No Status"
	StatusPending   = "Pending"
	StatusCompleted = "Completed"

	SortNewest = "newest"
	SortOldest = "oldest"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

var validStatuses = map[string]bool{
	StatusNoStatus:  true,
	StatusPending:   true,
	StatusCompleted: true,
}

// Contact is a lead submitted through the public contact form.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number"`
	TelegramID  *string   `json:"telegram_id"`
	Message     string    `json:"message"`
	Service     string    `json:"service"`
	Due         *pkg.Date `json:"due"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	IsReached   bool      `json:"is_reached"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactRequest is the payload of the public contact form.
type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	TelegramID  string `json:"telegram_id"`
	Message     string `json:"message"`
	Service     string `json:"service"`
}

func (req *ContactRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.Message) == "" {
		missing = append(missing, "message")
	}
	if strings.TrimSpace(req.Service) == "" {
		missing = append(missing, "service")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if !strings.Contains(req.Email, "@") {
		return errors.New("invalid email")
	}
	return nil
}

// ToContact builds a new lead with the initial state every submission starts in.
func (req *ContactRequest) ToContact(id uuid.UUID, now time.Time) *Contact {
	return &Contact{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: optional(req.PhoneNumber),
		TelegramID:  optional(req.TelegramID),
		Message:     req.Message,
		Service:     strings.TrimSpace(req.Service),
		Price:       0,
		Status:      StatusNoStatus,
		CreatedAt:   now,
	}
}

// ContactUpdate carries the fields the admin can change on a lead.
type ContactUpdate struct {
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	Due       *pkg.Date `json:"due"`
	IsReached bool      `json:"is_reached"`
}

func (u *ContactUpdate) Validate() error {
	if !validStatuses[u.Status] {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, u.Status)
	}
	if u.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

// Filter narrows down the dashboard listing.
type Filter struct {
	Service string
	Status  string
	Search  string
	Sort    string
}

func (f Filter) Oldest() bool {
	return f.Sort == SortOldest
}

// ContactView is a contact as shown on the dashboard.
type ContactView struct {
	*Contact
	CreatedAtFormatted string `json:"created_at_formatted"`
	DueFormatted       string `json:"due_formatted"`
}

func NewContactView(c *Contact) ContactView {
	view := ContactView{
		Contact:            c,
		CreatedAtFormatted: pkg.FormatDayMonthYear(c.CreatedAt),
	}
	if c.Due != nil {
		view.DueFormatted = pkg.FormatDayMonthYear(c.Due.Time)
	}
	return view
}

type DashboardResponse struct {
	Contacts []ContactView `json:"contacts"`
	Total    int           `json:"total"`
	Services []string      `json:"services"`
	Statuses []string      `json:"statuses"`
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
