package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/repos"
	"github.com/vallmere/sitetrack-backend/internal/types"
)

type ProjectService interface {
	Create(ctx context.Context, name, code string) (*types.Project, error)
	List(ctx context.Context) ([]*types.Project, error)
}

type projectService struct {
	log         *logger.Logger
	projectRepo repos.ProjectRepo
}

func NewProjectService(log *logger.Logger, projectRepo repos.ProjectRepo) ProjectService {
	serviceLog := log.With("service", "ProjectService")
	return &projectService{log: serviceLog, projectRepo: projectRepo}
}

func (s *projectService) Create(ctx context.Context, name, code string) (*types.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	row := &types.Project{ID: uuid.New(), Name: name, Code: code}
	if _, err := s.projectRepo.Create(ctx, nil, []*types.Project{row}); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return row, nil
}

func (s *projectService) List(ctx context.Context) ([]*types.Project, error) {
	return s.projectRepo.GetAll(ctx, nil)
}
