package postgres

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/confjudge/api-server/internal/models"
)

// userStore implements store.UserStore
type userStore struct {
	db *sql.DB
}

func (s *userStore) GetByID(id uuid.UUID) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`

	var user models.User
	err := s.db.QueryRow(query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *userStore) GetByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`

	var user models.User
	err := s.db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (s *userStore) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(query, user.ID, user.Email, user.PasswordHash).Scan(
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// roleStore implements store.RoleStore
type roleStore struct {
	db *sql.DB
}

func (s *roleStore) GetRole(userID uuid.UUID) (models.Role, error) {
	query := `SELECT role FROM user_roles WHERE user_id = $1`

	var role models.Role
	err := s.db.QueryRow(query, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

func (s *roleStore) DeleteRoles(userID uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete roles: %w", err)
	}
	return nil
}

func (s *roleStore) InsertRole(userID uuid.UUID, role models.Role) error {
	query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`
	if _, err := s.db.Exec(query, userID, role); err != nil {
		return fmt.Errorf("failed to insert role: %w", err)
	}
	return nil
}

// profileStore implements store.ProfileStore
type profileStore struct {
	db *sql.DB
}

func (s *profileStore) GetByUserID(userID uuid.UUID) (*models.Profile, error) {
	query := `SELECT user_id, full_name, expertise_areas, updated_at FROM profiles WHERE user_id = $1`

	var profile models.Profile
	err := s.db.QueryRow(query, userID).Scan(
		&profile.UserID, &profile.FullName, pq.Array(&profile.ExpertiseAreas), &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (s *profileStore) Create(profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, expertise_areas)
		VALUES ($1, $2, $3)
		RETURNING updated_at`

	err := s.db.QueryRow(query, profile.UserID, profile.FullName, pq.Array(profile.ExpertiseAreas)).Scan(
		&profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (s *profileStore) UpdateExpertiseAreas(userID uuid.UUID, areas []string) error {
	query := `UPDATE profiles SET expertise_areas = $1, updated_at = NOW() WHERE user_id = $2`
	if _, err := s.db.Exec(query, pq.Array(areas), userID); err != nil {
		return fmt.Errorf("failed to update profile expertise areas: %w", err)
	}
	return nil
}
