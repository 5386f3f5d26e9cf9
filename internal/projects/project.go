package projects

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/portfolio/pkg"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidSlug     = errors.New("slug must be lowercase letters and digits separated by single dashes")
	ErrSlugTaken       = errors.New("slug already taken")
)

type Project struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	TechStack   []string  `json:"tech_stack"`
	URL         string    `json:"url"`
	RepoURL     string    `json:"repo_url"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Normalize trims the tech stack entries and drops the empty ones.
func (p *Project) Normalize() {
	stack := make([]string, 0, len(p.TechStack))
	for _, tech := range p.TechStack {
		if tech = strings.TrimSpace(tech); tech != "" {
			stack = append(stack, tech)
		}
	}
	p.TechStack = stack
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if !pkg.IsValidSlug(p.Slug) {
		return ErrInvalidSlug
	}
	return nil
}
