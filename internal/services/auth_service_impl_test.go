package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	mem, _, svcs := newTestEnv()

	user, err := svcs.Auth.Register(&models.RegisterRequest{
		Email:    "dana@conf.test",
		Password: "secret123",
		FullName: "Dana Levi",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, mem.RoleOf(user.ID))

	profile, err := mem.Stores().Profiles.GetByUserID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Dana Levi", profile.FullName)

	resp, err := svcs.Auth.Login("dana@conf.test", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleStudent, resp.Role)
	assert.Equal(t, user.ID, resp.User.ID)

	// The token must carry the user's id and role.
	claims, err := auth.NewJWTService("test-secret").ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, _, svcs := newTestEnv()

	req := &models.RegisterRequest{Email: "dana@conf.test", Password: "secret123", FullName: "Dana Levi"}
	_, err := svcs.Auth.Register(req)
	require.NoError(t, err)

	_, err = svcs.Auth.Register(req)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "Email already registered")
}

func TestLogin_WrongPassword(t *testing.T) {
	_, _, svcs := newTestEnv()

	_, err := svcs.Auth.Register(&models.RegisterRequest{
		Email: "dana@conf.test", Password: "secret123", FullName: "Dana Levi",
	})
	require.NoError(t, err)

	_, err = svcs.Auth.Login("dana@conf.test", "wrong-password")
	require.Error(t, err)
	assert.True(t, apperr.IsAuthorization(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, _, svcs := newTestEnv()

	_, err := svcs.Auth.Login("nobody@conf.test", "secret123")
	require.Error(t, err)
	assert.True(t, apperr.IsAuthorization(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestLogin_TokenReflectsAssignedRole(t *testing.T) {
	mem, _, svcs := newTestEnv()

	user, err := svcs.Auth.Register(&models.RegisterRequest{
		Email: "judge@conf.test", Password: "secret123", FullName: "Judge One",
	})
	require.NoError(t, err)

	admin := asCaller(mem.SeedUser("admin@conf.test", "Admin", models.RoleDepartmentManager), models.RoleDepartmentManager)
	_, err = svcs.Roles.AssignRole(admin, user.ID, "judge")
	require.NoError(t, err)

	resp, err := svcs.Auth.Login("judge@conf.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleJudge, resp.Role)
}
