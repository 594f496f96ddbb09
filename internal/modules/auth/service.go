package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aqarat/internal/domain"
)

type Service struct {
	users UserRepository
	jwt   TokenIssuer
}

type LoginResult struct {
	User  *domain.User
	Token string
}

func NewService(users UserRepository, jwt TokenIssuer) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleClient
	if req.Role == string(domain.RoleOwner) {
		role = domain.RoleOwner
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// The unique index closes the race between the existence check and
		// the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		u.PasswordHash = ""
	}
	return u, nil
}

func (s *Service) issue(u *domain.User) (*LoginResult, error) {
	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &LoginResult{User: u, Token: token}, nil
}
