package resume

import (
	"errors"
	"strings"

	"github.com/2beens/portfolio/pkg"
)

var (
	ErrNotFound          = errors.New("entry not found")
	ErrSkillExists       = errors.New("skill already exists")
	ErrEndBeforeStart    = errors.New("end date is before start date")
	ErrStartDateRequired = errors.New("start date is required")
)

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Profile is the single "about" row of the resume.
type Profile struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Headline    string       `json:"headline"`
	AvatarURL   string       `json:"avatar_url"`
	Location    string       `json:"location"`
	Bio         string       `json:"bio"`
	SocialLinks []SocialLink `json:"social_links"`
}

func (p *Profile) Normalize() {
	if p.SocialLinks == nil {
		p.SocialLinks = []SocialLink{}
	}
}

type Experience struct {
	ID          int       `json:"id"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	StartDate   pkg.Date  `json:"start_date"`
	EndDate     *pkg.Date `json:"end_date"`
	Description string    `json:"description"`
}

func (e *Experience) Validate() error {
	if strings.TrimSpace(e.Role) == "" {
		return errors.New("role is required")
	}
	if strings.TrimSpace(e.Company) == "" {
		return errors.New("company is required")
	}
	return validatePeriod(e.StartDate, e.EndDate)
}

type Education struct {
	ID        int       `json:"id"`
	School    string    `json:"school"`
	Degree    string    `json:"degree"`
	StartDate pkg.Date  `json:"start_date"`
	EndDate   *pkg.Date `json:"end_date"`
	Details   string    `json:"details"`
}

func (e *Education) Validate() error {
	if strings.TrimSpace(e.School) == "" {
		return errors.New("school is required")
	}
	if strings.TrimSpace(e.Degree) == "" {
		return errors.New("degree is required")
	}
	return validatePeriod(e.StartDate, e.EndDate)
}

type Skill struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

func (s *Skill) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func validatePeriod(start pkg.Date, end *pkg.Date) error {
	if start.IsZero() {
		return ErrStartDateRequired
	}
	if end != nil && end.Before(start.Time) {
		return ErrEndBeforeStart
	}
	return nil
}
