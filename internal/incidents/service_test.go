package incidents

import (
	"context"
	"testing"
	"time"

	"github.com/junior231/incident-hub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	incidents  map[string]*domain.Incident
	createErr  error
	updateErr  error
	lastOffset int
	lastLimit  int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		incidents: make(map[string]*domain.Incident),
	}
}

func (m *mockRepository) Create(_ context.Context, incident *domain.Incident) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *incident
	m.incidents[incident.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*domain.Incident, error) {
	if stored, ok := m.incidents[id]; ok {
		copied := *stored
		return &copied, nil
	}
	return nil, ErrIncidentNotFound
}

func (m *mockRepository) List(_ context.Context, offset, limit int) ([]domain.Incident, error) {
	m.lastOffset = offset
	m.lastLimit = limit
	items := make([]domain.Incident, 0, len(m.incidents))
	for _, incident := range m.incidents {
		items = append(items, *incident)
	}
	return items, nil
}

func (m *mockRepository) Count(_ context.Context) (int, error) {
	return len(m.incidents), nil
}

func (m *mockRepository) Update(_ context.Context, incident *domain.Incident) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.incidents[incident.ID]; !ok {
		return ErrIncidentNotFound
	}
	copied := *incident
	m.incidents[incident.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.incidents[id]; !ok {
		return ErrIncidentNotFound
	}
	delete(m.incidents, id)
	return nil
}

func strPtr(s string) *string { return &s }

func severityPtr(s domain.Severity) *domain.Severity { return &s }

func statusPtr(s domain.Status) *domain.Status { return &s }

func TestCreate_BlankTitleFails(t *testing.T) {
	service := NewService(newMockRepository())

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := service.Create(context.Background(), CreateIncidentInput{
			Title:    title,
			Severity: domain.SeverityCritical,
			Assignee: strPtr("ops"),
		})
		assert.ErrorIs(t, err, ErrTitleRequired, "title %q", title)
	}
}

func TestCreate_Defaults(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{
		Title: "  Disk full  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, incident.ID)
	assert.Equal(t, "Disk full", incident.Title)
	assert.Nil(t, incident.Description)
	assert.Equal(t, domain.SeverityLow, incident.Severity)
	assert.Equal(t, domain.StatusOpen, incident.Status)
	assert.Nil(t, incident.Assignee)
	assert.False(t, incident.CreatedAt.IsZero())
	assert.Nil(t, incident.AcknowledgedAt)
	assert.Nil(t, incident.ResolvedAt)

	require.Contains(t, repo.incidents, incident.ID)
}

func TestCreate_NormalizesOptionalFields(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{
		Title:       "DB latency",
		Description: strPtr("  queries slow  "),
		Severity:    domain.SeverityHigh,
		Assignee:    strPtr("   "),
	})
	require.NoError(t, err)

	require.NotNil(t, incident.Description)
	assert.Equal(t, "queries slow", *incident.Description)
	assert.Nil(t, incident.Assignee, "whitespace-only assignee should be absent")
}

func TestCreate_InvalidSeverity(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), CreateIncidentInput{
		Title:    "Bad input",
		Severity: domain.Severity(9),
	})
	assert.ErrorIs(t, err, ErrInvalidSeverity)
}

func TestUpdate_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	err := service.Update(context.Background(), "00000000-0000-0000-0000-000000000000", UpdateIncidentInput{
		Title: strPtr("new title"),
	})
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestUpdate_AcknowledgeSetsTimestampOnce(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "Disk full"})
	require.NoError(t, err)

	require.NoError(t, service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Status: statusPtr(domain.StatusAcknowledged),
	}))

	first, err := service.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	require.NotNil(t, first.AcknowledgedAt)

	// Second acknowledge must not move the timestamp
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Status: statusPtr(domain.StatusAcknowledged),
	}))

	second, err := service.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	require.NotNil(t, second.AcknowledgedAt)
	assert.True(t, first.AcknowledgedAt.Equal(*second.AcknowledgedAt))
}

func TestUpdate_ResolveDoesNotBackfillAcknowledged(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "Disk full"})
	require.NoError(t, err)

	require.NoError(t, service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Status: statusPtr(domain.StatusResolved),
	}))

	updated, err := service.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)
	assert.Nil(t, updated.AcknowledgedAt, "jumping to resolved must not backfill acknowledged_at")
}

func TestUpdate_ReopenKeepsTimestamps(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "Disk full"})
	require.NoError(t, err)

	require.NoError(t, service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Status: statusPtr(domain.StatusResolved),
	}))
	require.NoError(t, service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Status: statusPtr(domain.StatusOpen),
	}))

	reopened, err := service.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, reopened.Status)
	assert.NotNil(t, reopened.ResolvedAt, "reopening must not reset resolved_at")
}

func TestUpdate_AbsentFieldsUnchanged(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{
		Title:       "Disk full",
		Description: strPtr("volume at 98%"),
		Severity:    domain.SeverityHigh,
		Assignee:    strPtr("alice"),
	})
	require.NoError(t, err)

	require.NoError(t, service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Severity: severityPtr(domain.SeverityCritical),
	}))

	updated, err := service.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	assert.Equal(t, "Disk full", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "volume at 98%", *updated.Description)
	assert.Equal(t, domain.SeverityCritical, updated.Severity)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, "alice", *updated.Assignee)
}

func TestUpdate_ClearAssigneeAndDescription(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{
		Title:       "Disk full",
		Description: strPtr("volume at 98%"),
		Assignee:    strPtr("alice"),
	})
	require.NoError(t, err)

	require.NoError(t, service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Description: strPtr(""),
		Assignee:    strPtr(""),
	}))

	updated, err := service.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.Assignee)
}

func TestUpdate_TitleCannotBeCleared(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "Disk full"})
	require.NoError(t, err)

	err = service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Title: strPtr("   "),
	})
	assert.ErrorIs(t, err, ErrTitleRequired)

	unchanged, err := service.Get(context.Background(), incident.ID)
	require.NoError(t, err)
	assert.Equal(t, "Disk full", unchanged.Title)
}

func TestUpdate_InvalidEnums(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "Disk full"})
	require.NoError(t, err)

	err = service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Severity: severityPtr(domain.Severity(0)),
	})
	assert.ErrorIs(t, err, ErrInvalidSeverity)

	err = service.Update(context.Background(), incident.ID, UpdateIncidentInput{
		Status: statusPtr(domain.Status(7)),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestList_ClampsPagination(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults", 1, 20, 1, 20, 0},
		{"zero page", 0, 20, 1, 20, 0},
		{"negative page", -3, 20, 1, 20, 0},
		{"zero page size", 1, 0, 1, 20, 0},
		{"oversized page size", 1, 500, 1, 20, 0},
		{"second page", 2, 10, 2, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.List(context.Background(), tt.page, tt.pageSize)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantPageSize, result.PageSize)
			assert.Equal(t, tt.wantOffset, repo.lastOffset)
			assert.Equal(t, tt.wantPageSize, repo.lastLimit)
		})
	}
}

func TestDelete(t *testing.T) {
	service := NewService(newMockRepository())

	incident, err := service.Create(context.Background(), CreateIncidentInput{Title: "Disk full"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), incident.ID))

	_, err = service.Get(context.Background(), incident.ID)
	assert.ErrorIs(t, err, ErrIncidentNotFound)

	err = service.Delete(context.Background(), incident.ID)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}
