package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrNameRequired    = errors.New("name is required")
)

// Service is an offering listed on the public site.
type Service struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	return nil
}
