package services

import (
	"context"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/repositories"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

type WorkService interface {
	Create(ctx context.Context, in *dto.CreateWorkRequest) (*models.Work, error)
	List(ctx context.Context, caller Caller, page, limit int) (*dto.Page, error)
	Get(ctx context.Context, caller Caller, id uint) (*models.Work, error)
	Update(ctx context.Context, id uint, in *dto.UpdateWorkRequest) (*models.Work, error)
	Delete(ctx context.Context, id uint) error
}

type workService struct {
	workRepo repositories.WorkRepository
}

func NewWorkService(workRepo repositories.WorkRepository) WorkService {
	return &workService{workRepo: workRepo}
}

func (s *workService) Create(ctx context.Context, in *dto.CreateWorkRequest) (*models.Work, error) {
	work := &models.Work{
		Name:        in.Name,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		TotalBudget: in.TotalBudget,
		AdminID:     in.AdminID,
	}
	if err := s.workRepo.Create(ctx, work); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return work, nil
}

// List returns all works for admins; other users only see the works they
// administer.
func (s *workService) List(ctx context.Context, caller Caller, page, limit int) (*dto.Page, error) {
	offset := (page - 1) * limit

	var (
		works []models.Work
		total int64
		err   error
	)
	if caller.IsAdmin() {
		works, total, err = s.workRepo.FindPage(ctx, offset, limit)
	} else {
		works, total, err = s.workRepo.FindPageByAdmin(ctx, caller.ID, offset, limit)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return dto.NewPage(works, total, page, limit), nil
}

func (s *workService) Get(ctx context.Context, caller Caller, id uint) (*models.Work, error) {
	work, err := s.workRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Work not found")
	}
	if !caller.IsAdmin() && !caller.administers(work) {
		return nil, apperrors.NewForbiddenError("You do not have access to this work")
	}
	return work, nil
}

func (s *workService) Update(ctx context.Context, id uint, in *dto.UpdateWorkRequest) (*models.Work, error) {
	work, err := s.workRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Work not found")
	}

	attrs := map[string]interface{}{}
	if in.Name != nil {
		attrs["name"] = *in.Name
	}
	if in.StartDate != nil {
		attrs["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		attrs["end_date"] = *in.EndDate
	}
	if in.TotalBudget != nil {
		attrs["total_budget"] = *in.TotalBudget
	}
	if in.AdminID != nil {
		attrs["admin_id"] = *in.AdminID
	}
	if in.IsArchived != nil {
		attrs["is_archived"] = *in.IsArchived
	}

	if len(attrs) > 0 {
		if err := s.workRepo.Update(ctx, work, attrs); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return s.workRepo.FindByID(ctx, id)
}

func (s *workService) Delete(ctx context.Context, id uint) error {
	work, err := s.workRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Work not found")
	}
	if err := s.workRepo.Delete(ctx, work); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
