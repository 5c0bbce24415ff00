package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/auth"
	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/repositories"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

type UserService interface {
	Register(ctx context.Context, in *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, in *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(refreshToken string) (*dto.TokenResponse, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	GetWithWorks(ctx context.Context, caller Caller, id uint) (*models.User, error)
	List(ctx context.Context, page, limit int) (*dto.Page, error)
	Update(ctx context.Context, caller Caller, id uint, in *dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	userRepo repositories.UserRepository
	workRepo repositories.WorkRepository
	tokens   *auth.TokenManager
}

func NewUserService(userRepo repositories.UserRepository, workRepo repositories.WorkRepository, tokens *auth.TokenManager) UserService {
	return &userService{userRepo: userRepo, workRepo: workRepo, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, in *dto.RegisterRequest) (*models.User, error) {
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Role:     models.UserRole(in.Role),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, in *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(in.Password, user.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) Refresh(refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.TokenResponse{AccessToken: accessToken}, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

// GetWithWorks returns a user's profile with the works they administer.
// Only the user themselves or an admin may read it.
func (s *userService) GetWithWorks(ctx context.Context, caller Caller, id uint) (*models.User, error) {
	if caller.ID != id && !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("You do not have permission to access this profile")
	}
	user, err := s.userRepo.FindByIDWithWorks(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page, limit int) (*dto.Page, error) {
	offset := (page - 1) * limit
	users, total, err := s.userRepo.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPage(users, total, page, limit), nil
}

// Update lets admins change any field and regular users change only their
// own password after confirming the current one.
func (s *userService) Update(ctx context.Context, caller Caller, id uint, in *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	if !caller.IsAdmin() && caller.ID != id {
		return nil, apperrors.NewForbiddenError("You do not have permission to modify this user")
	}

	if !caller.IsAdmin() {
		if in.Password == nil {
			return nil, apperrors.NewBadRequestError("No valid update provided")
		}
		if in.CurrentPassword == nil {
			return nil, apperrors.NewBadRequestError("Current password is required to change the password")
		}
		if !auth.CheckPasswordHash(*in.CurrentPassword, user.Password) {
			return nil, apperrors.NewUnauthorizedError("Current password is incorrect")
		}
		if err := auth.ValidatePassword(*in.Password); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := s.userRepo.Update(ctx, user, map[string]interface{}{"password": hashed}); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return s.userRepo.FindByID(ctx, id)
	}

	attrs := map[string]interface{}{}
	if in.Name != nil {
		attrs["name"] = *in.Name
	}
	if in.Email != nil {
		attrs["email"] = *in.Email
	}
	if in.Role != nil {
		attrs["role"] = *in.Role
	}
	if in.Password != nil {
		if err := auth.ValidatePassword(*in.Password); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		attrs["password"] = hashed
	}
	if len(attrs) > 0 {
		if err := s.userRepo.Update(ctx, user, attrs); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return s.userRepo.FindByID(ctx, id)
}

// Delete refuses to remove admins or users still administering works.
func (s *userService) Delete(ctx context.Context, id uint) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "User not found")
	}

	if user.Role == models.UserRoleAdmin {
		return apperrors.NewForbiddenError("Administrators cannot be deleted")
	}

	count, err := s.workRepo.CountByAdmin(ctx, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count > 0 {
		return apperrors.NewBadRequestError("User cannot be deleted while administering works")
	}

	if err := s.userRepo.Delete(ctx, user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
