package incidents

import (
	"context"

	"github.com/junior231/incident-hub/internal/domain"
)

// Repository defines the interface for incident data operations.
type Repository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	GetByID(ctx context.Context, id string) (*domain.Incident, error)
	List(ctx context.Context, offset, limit int) ([]domain.Incident, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, incident *domain.Incident) error
	Delete(ctx context.Context, id string) error
}
