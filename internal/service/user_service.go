package service

import (
	"context"
	"errors"
	"strings"

	"github.com/celianh/marketplace-backend/internal/auth"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("incorrect email or password")
var ErrInactiveUser = errors.New("inactive user")

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     model.Role
}

type UpdateProfileInput struct {
	FullName *string
	Password *string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id uint64) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, in UpdateProfileInput) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("invalid email")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	switch in.Role {
	case model.RoleBuyer, model.RoleSeller, model.RoleAdmin:
	default:
		return nil, errors.New("invalid role, must be buyer, seller, or admin")
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:          email,
		FullName:       strings.TrimSpace(in.FullName),
		HashedPassword: hashed,
		Role:           in.Role,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint64, in UpdateProfileInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, errors.New("password must be at least 8 characters")
		}
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashed
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
