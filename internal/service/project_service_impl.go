package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	now      func() time.Time
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{
		projects: projects,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.Invalidf("project name is required")
	}
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err := p.ValidateShortID(); err != nil {
		return domain.Invalidf("%v", err)
	}
	if p.TargetStartDate.IsZero() {
		return domain.Invalidf("target start date is required")
	}
	p.TargetStartDate = calendar.Truncate(p.TargetStartDate)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := s.now().Truncate(time.Second)
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return s.projects.GetByShortID(ctx, shortID)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return p, err
	}
	return s.projects.GetByID(ctx, ref)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := p.ValidateShortID(); err != nil {
		return domain.Invalidf("%v", err)
	}
	p.TargetStartDate = calendar.Truncate(p.TargetStartDate)
	p.UpdatedAt = s.now().Truncate(time.Second)
	return s.projects.Update(ctx, p)
}

// Delete removes the project together with its schedule and alerts.
func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}
