package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Validated field types. Nothing below the API boundary accepts a raw string:
// an Id, Name, Title or Content value can only be obtained through its
// constructor, so a record that carries one has already passed its bounds.

var validate = validator.New()

// Length bounds are policy, overridable via settings; the fallbacks apply
// when no configuration was loaded.
const (
	fallbackNameMax    = 32
	fallbackTitleMax   = 128
	fallbackContentMax = 1024
)

func boundFor(key string, fallback int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

// Id is an opaque 36-character entity identifier.
type Id string

// NewId mints a fresh identifier.
func NewId() Id {
	return Id(uuid.NewString())
}

// ParseId validates an identifier supplied by a caller.
func ParseId(raw string) (Id, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", &FieldError{Field: "id", Reason: "malformed identifier"}
	}
	return Id(raw), nil
}

func (id Id) String() string {
	return string(id)
}

// Name is a username or nickname, 1-32 characters.
type Name string

func NewName(raw string) (Name, error) {
	max := boundFor("limits.name_max", fallbackNameMax)
	if strings.TrimSpace(raw) == "" {
		return "", &FieldError{Field: "name", Reason: "must not be blank"}
	}
	if err := validate.Var(raw, fmt.Sprintf("min=1,max=%d", max)); err != nil {
		return "", &FieldError{Field: "name", Reason: fmt.Sprintf("must be between 1 and %d characters", max)}
	}
	return Name(raw), nil
}

func (n Name) String() string {
	return string(n)
}

// Title heads a category or post, 1-128 characters.
type Title string

func NewTitle(raw string) (Title, error) {
	max := boundFor("limits.title_max", fallbackTitleMax)
	if strings.TrimSpace(raw) == "" {
		return "", &FieldError{Field: "title", Reason: "must not be blank"}
	}
	if err := validate.Var(raw, fmt.Sprintf("min=1,max=%d", max)); err != nil {
		return "", &FieldError{Field: "title", Reason: fmt.Sprintf("must be between 1 and %d characters", max)}
	}
	return Title(raw), nil
}

func (t Title) String() string {
	return string(t)
}

// Content is a post or reply body, 1-1024 characters.
type Content string

func NewContent(raw string) (Content, error) {
	max := boundFor("limits.content_max", fallbackContentMax)
	if strings.TrimSpace(raw) == "" {
		return "", &FieldError{Field: "content", Reason: "must not be blank"}
	}
	if err := validate.Var(raw, fmt.Sprintf("min=1,max=%d", max)); err != nil {
		return "", &FieldError{Field: "content", Reason: fmt.Sprintf("must be between 1 and %d characters", max)}
	}
	return Content(raw), nil
}

func (c Content) String() string {
	return string(c)
}

// FieldError reports a field that failed its constraints.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
