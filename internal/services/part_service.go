package services

import (
	"context"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/repositories"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

type PartService interface {
	Create(ctx context.Context, workID uint, in *dto.CreatePartRequest) (*models.Part, error)
	Get(ctx context.Context, id uint) (*models.Part, error)
	ListByWork(ctx context.Context, workID uint) ([]models.Part, error)
	ListBySubgroup(ctx context.Context, subgroupID uint) ([]models.Part, error)
	Update(ctx context.Context, id uint, in *dto.UpdatePartRequest) (*models.Part, error)
	Delete(ctx context.Context, id uint) error
}

type partService struct {
	partRepo     repositories.PartRepository
	workRepo     repositories.WorkRepository
	subgroupRepo repositories.SubgroupRepository
}

func NewPartService(partRepo repositories.PartRepository, workRepo repositories.WorkRepository, subgroupRepo repositories.SubgroupRepository) PartService {
	return &partService{partRepo: partRepo, workRepo: workRepo, subgroupRepo: subgroupRepo}
}

func (s *partService) Create(ctx context.Context, workID uint, in *dto.CreatePartRequest) (*models.Part, error) {
	work, err := s.workRepo.FindByID(ctx, workID)
	if err != nil {
		return nil, notFoundOr(err, "Work not found")
	}
	if in.SubgroupID != nil {
		if _, err := s.subgroupRepo.FindByID(ctx, *in.SubgroupID); err != nil {
			return nil, notFoundOr(err, "Subgroup not found")
		}
	}

	part := &models.Part{
		Name:       in.Name,
		Budget:     in.Budget,
		WorkID:     work.ID,
		SubgroupID: in.SubgroupID,
	}
	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return part, nil
}

func (s *partService) Get(ctx context.Context, id uint) (*models.Part, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Part not found")
	}
	return part, nil
}

func (s *partService) ListByWork(ctx context.Context, workID uint) ([]models.Part, error) {
	parts, err := s.partRepo.FindByWork(ctx, workID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return parts, nil
}

func (s *partService) ListBySubgroup(ctx context.Context, subgroupID uint) ([]models.Part, error) {
	parts, err := s.partRepo.FindBySubgroup(ctx, subgroupID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return parts, nil
}

func (s *partService) Update(ctx context.Context, id uint, in *dto.UpdatePartRequest) (*models.Part, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Part not found")
	}

	attrs := map[string]interface{}{}
	if in.Name != nil {
		attrs["name"] = *in.Name
	}
	if in.Budget != nil {
		attrs["budget"] = *in.Budget
	}
	if in.SubgroupID != nil {
		attrs["subgroup_id"] = *in.SubgroupID
	}
	if in.WorkID != nil {
		attrs["work_id"] = *in.WorkID
	}
	if len(attrs) > 0 {
		if err := s.partRepo.Update(ctx, part, attrs); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return s.partRepo.FindByID(ctx, id)
}

func (s *partService) Delete(ctx context.Context, id uint) error {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Part not found")
	}
	if err := s.partRepo.Delete(ctx, part); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
