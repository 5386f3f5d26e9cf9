package blog

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/portfolio/pkg"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidSlug   = errors.New("slug must be lowercase letters and digits separated by single dashes")
	ErrSlugTaken     = errors.New("slug already taken")
)

type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if !pkg.IsValidSlug(p.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

type PostsResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
}
