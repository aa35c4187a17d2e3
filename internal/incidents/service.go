// Package incidents provides HTTP handlers and business logic for the incident lifecycle.
package incidents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junior231/incident-hub/internal/domain"
)

// Pagination defaults and bounds for listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service implements incident business logic.
type Service struct {
	repo Repository
}

// NewService creates a new incident service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateIncidentInput holds data for creating an incident.
type CreateIncidentInput struct {
	Title       string
	Description *string
	Severity    domain.Severity
	Assignee    *string
}

// UpdateIncidentInput holds a partial update. Nil fields are left unchanged.
// An explicit empty string clears Description or Assignee; Title can only be
// replaced, never cleared.
type UpdateIncidentInput struct {
	Title       *string
	Description *string
	Severity    *domain.Severity
	Status      *domain.Status
	Assignee    *string
}

// ListResult holds one page of incidents.
type ListResult struct {
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Items    []domain.Incident `json:"items"`
}

// Create validates, normalizes and persists a new incident.
// The returned incident carries the generated ID and creation timestamp.
func (s *Service) Create(ctx context.Context, input CreateIncidentInput) (*domain.Incident, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	severity := input.Severity
	if severity == 0 {
		severity = domain.SeverityLow
	}
	if !severity.IsValid() {
		return nil, ErrInvalidSeverity
	}

	incident := &domain.Incident{
		ID:          uuid.New().String(),
		Title:       title,
		Description: normalizeOptional(input.Description),
		Severity:    severity,
		Status:      domain.StatusOpen,
		Assignee:    normalizeOptional(input.Assignee),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	return incident, nil
}

// Get retrieves an incident by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Incident, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves incidents ordered by creation time, most recent first.
// Out-of-range page falls back to 1, out-of-range pageSize to the default.
func (s *Service) List(ctx context.Context, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count incidents: %w", err)
	}

	items, err := s.repo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	return &ListResult{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    items,
	}, nil
}

// Update applies a partial update to an existing incident.
//
// Status changes trigger lifecycle timestamps: the first transition to
// Acknowledged sets AcknowledgedAt, the first transition to Resolved sets
// ResolvedAt. Neither is ever overwritten, and jumping straight to Resolved
// does not backfill AcknowledgedAt. Backward transitions are allowed and
// leave the timestamps in place.
func (s *Service) Update(ctx context.Context, id string, input UpdateIncidentInput) error {
	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return ErrTitleRequired
		}
		incident.Title = title
	}

	if input.Description != nil {
		incident.Description = normalizeOptional(input.Description)
	}

	if input.Severity != nil {
		if !input.Severity.IsValid() {
			return ErrInvalidSeverity
		}
		incident.Severity = *input.Severity
	}

	if input.Assignee != nil {
		incident.Assignee = normalizeOptional(input.Assignee)
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return ErrInvalidStatus
		}
		incident.Status = *input.Status

		if incident.Status == domain.StatusAcknowledged && incident.AcknowledgedAt == nil {
			now := time.Now().UTC()
			incident.AcknowledgedAt = &now
		}
		if incident.Status == domain.StatusResolved && incident.ResolvedAt == nil {
			now := time.Now().UTC()
			incident.ResolvedAt = &now
		}
	}

	if err := s.repo.Update(ctx, incident); err != nil {
		return fmt.Errorf("update incident: %w", err)
	}

	return nil
}

// Delete permanently removes an incident.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// normalizeOptional trims an optional text field and converts empty to absent.
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
