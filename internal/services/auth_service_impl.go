package services

import (
	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// authService implements AuthService
type authService struct {
	store *store.Store
	jwt   *auth.JWTService
}

func newAuthService(st *store.Store, jwt *auth.JWTService) AuthService {
	return &authService{store: st, jwt: jwt}
}

// Login verifies credentials and issues a token carrying the user's
// current role. Accounts without a role row act as students.
func (s *authService) Login(email, password string) (*models.LoginResponse, error) {
	user, err := s.store.Users.GetByEmail(email)
	if err != nil || user == nil {
		return nil, apperr.Authorization("Invalid email or password")
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, apperr.Authorization("Invalid email or password")
	}

	role, err := s.store.Roles.GetRole(user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load role", err)
	}
	if role == "" {
		role = models.RoleStudent
	}

	token, expiresAt, err := s.jwt.GenerateToken(auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(role),
	})
	if err != nil {
		return nil, apperr.Internal("failed to generate token", err)
	}

	return &models.LoginResponse{
		Token:     token,
		User:      *user,
		Role:      role,
		ExpiresAt: expiresAt,
	}, nil
}

// Register creates an account with a profile and the default student
// role. Role upgrades happen through role assignment afterwards.
func (s *authService) Register(req *models.RegisterRequest) (*models.User, error) {
	if existing, err := s.store.Users.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, apperr.Validation("Email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{Email: req.Email, PasswordHash: hash}
	if err := s.store.Users.Create(user); err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	profile := &models.Profile{UserID: user.ID, FullName: req.FullName}
	if err := s.store.Profiles.Create(profile); err != nil {
		return nil, apperr.Internal("failed to create profile", err)
	}
	if err := s.store.Roles.InsertRole(user.ID, models.RoleStudent); err != nil {
		return nil, apperr.Internal("failed to assign default role", err)
	}

	return user, nil
}
