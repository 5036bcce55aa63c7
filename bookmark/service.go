package bookmark

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service validates requests and forwards them to the Repository.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	valid *validator.Validate
	repo  Repository
}

// NewService creates a Service whose validation errors name fields by their
// JSON key.
func NewService(repo Repository) *Service {
	valid := validator.New(validator.WithRequiredStructEnabled())
	valid.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		valid: valid,
		repo:  repo,
	}
}

// Create validates the request and stores a new bookmark, returning its id.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	if err := s.validate(ctx, req); err != nil {
		return "", err
	}
	return s.repo.Create(ctx, req.UserID, req.BookmarkURL, req.Title)
}

// List returns every bookmark of the user ordered by bookmark_id. The slice
// is empty, never nil, when the user has none.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Bookmark, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	out := make([]Bookmark, 0)
	for b, err := range s.repo.List(ctx, req.UserID) {
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Update validates the request and replaces title and url.
func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	if err := s.validate(ctx, req); err != nil {
		return err
	}
	return s.repo.Update(ctx, req.UserID, req.BookmarkID, req.BookmarkURL, req.Title)
}

// Delete validates the request and removes the bookmark.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) error {
	if err := s.validate(ctx, req); err != nil {
		return err
	}
	return s.repo.Delete(ctx, req.UserID, req.BookmarkID)
}

// validate reports the first failing field as a ValidationError.
func (s *Service) validate(ctx context.Context, req any) error {
	err := s.valid.StructCtx(ctx, req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Tag: verrs[0].Tag()}
	}
	return &ValidationError{Field: "request", Tag: "valid"}
}
