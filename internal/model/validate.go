package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrTitleRequired        = errors.New("model: task title is required")
	ErrCategoryRequired     = errors.New("model: task category is required")
	ErrCategoryNameRequired = errors.New("model: category name is required")
	ErrSubTaskEmpty         = errors.New("model: sub-task needs a heading or a description")
	ErrStepTitleRequired    = errors.New("model: progress step title is required")
	ErrInvalidEmail         = errors.New("model: invalid email address")
	ErrInvalidFilter        = errors.New("model: invalid status filter")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type StatusFilter string

const (
	FilterAll        StatusFilter = "all"
	FilterInProgress StatusFilter = "inProgress"
	FilterCompleted  StatusFilter = "completed"
)

func (f StatusFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterInProgress, FilterCompleted:
		return true
	default:
		return false
	}
}

// Match reports whether t passes the filter. An empty filter matches all.
func (f StatusFilter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.IsCompleted()
	case FilterInProgress:
		return !t.IsCompleted()
	default:
		return true
	}
}

func (f StatusFilter) Next() StatusFilter {
	switch f {
	case FilterAll:
		return FilterInProgress
	case FilterInProgress:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func ParseStatusFilter(raw string) (StatusFilter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return FilterAll, nil
	}
	for _, f := range []StatusFilter{FilterAll, FilterInProgress, FilterCompleted} {
		if strings.EqualFold(trimmed, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
}

// ValidateTaskDraft mirrors the checks a form runs before calling the store.
func ValidateTaskDraft(title, categoryID string, metadata TaskMetadata) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(categoryID) == "" {
		return ErrCategoryRequired
	}
	if metadata.Contact != nil && metadata.Contact.Email != "" {
		if err := ValidateEmail(metadata.Contact.Email); err != nil {
			return err
		}
	}
	if metadata.ProgressTracker != nil {
		for _, step := range metadata.ProgressTracker.Steps {
			if strings.TrimSpace(step.Title) == "" {
				return ErrStepTitleRequired
			}
		}
	}
	return nil
}

func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrCategoryNameRequired
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// ValidateDraft enforces the creation guard: description may be empty only
// when a heading is present.
func (s SubTask) ValidateDraft() error {
	if strings.TrimSpace(s.Description) == "" && strings.TrimSpace(s.Heading) == "" {
		return ErrSubTaskEmpty
	}
	return nil
}
