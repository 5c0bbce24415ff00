package services

import (
	"context"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/repositories"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

type SubgroupService interface {
	Create(ctx context.Context, caller Caller, workID uint, in *dto.CreateSubgroupRequest) (*models.Subgroup, error)
	ListByWork(ctx context.Context, workID uint) ([]models.Subgroup, error)
	Get(ctx context.Context, caller Caller, id uint) (*models.Subgroup, error)
	Update(ctx context.Context, caller Caller, id uint, in *dto.UpdateSubgroupRequest) (*models.Subgroup, error)
	Delete(ctx context.Context, id uint) error
}

type subgroupService struct {
	subgroupRepo repositories.SubgroupRepository
	workRepo     repositories.WorkRepository
}

func NewSubgroupService(subgroupRepo repositories.SubgroupRepository, workRepo repositories.WorkRepository) SubgroupService {
	return &subgroupService{subgroupRepo: subgroupRepo, workRepo: workRepo}
}

// Create requires the caller to be a global admin or the administrator of
// the owning work; the check happens before any mutation.
func (s *subgroupService) Create(ctx context.Context, caller Caller, workID uint, in *dto.CreateSubgroupRequest) (*models.Subgroup, error) {
	work, err := s.workRepo.FindByID(ctx, workID)
	if err != nil {
		return nil, notFoundOr(err, "Work not found")
	}
	if !caller.IsAdmin() && !caller.administers(work) {
		return nil, apperrors.NewForbiddenError("You do not have permission to create subgroups in this work")
	}

	subgroup := &models.Subgroup{
		Name:   in.Name,
		WorkID: work.ID,
		Budget: in.Budget,
	}
	if err := s.subgroupRepo.Create(ctx, subgroup); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return subgroup, nil
}

func (s *subgroupService) ListByWork(ctx context.Context, workID uint) ([]models.Subgroup, error) {
	subgroups, err := s.subgroupRepo.FindByWork(ctx, workID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return subgroups, nil
}

func (s *subgroupService) Get(ctx context.Context, caller Caller, id uint) (*models.Subgroup, error) {
	subgroup, err := s.subgroupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Subgroup not found")
	}
	if err := s.authorize(ctx, caller, subgroup); err != nil {
		return nil, err
	}
	return subgroup, nil
}

func (s *subgroupService) Update(ctx context.Context, caller Caller, id uint, in *dto.UpdateSubgroupRequest) (*models.Subgroup, error) {
	subgroup, err := s.subgroupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Subgroup not found")
	}
	if err := s.authorize(ctx, caller, subgroup); err != nil {
		return nil, err
	}

	attrs := map[string]interface{}{}
	if in.Name != nil {
		attrs["name"] = *in.Name
	}
	if in.Budget != nil {
		attrs["budget"] = *in.Budget
	}
	if len(attrs) > 0 {
		if err := s.subgroupRepo.Update(ctx, subgroup, attrs); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return s.subgroupRepo.FindByID(ctx, id)
}

func (s *subgroupService) Delete(ctx context.Context, id uint) error {
	subgroup, err := s.subgroupRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Subgroup not found")
	}
	if err := s.subgroupRepo.Delete(ctx, subgroup); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subgroupService) authorize(ctx context.Context, caller Caller, subgroup *models.Subgroup) error {
	if caller.IsAdmin() {
		return nil
	}
	work, err := s.workRepo.FindByID(ctx, subgroup.WorkID)
	if err != nil {
		return notFoundOr(err, "Work not found")
	}
	if !caller.administers(work) {
		return apperrors.NewForbiddenError("You do not have access to this subgroup")
	}
	return nil
}
