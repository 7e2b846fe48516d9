package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/directory-api/internal/dto"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
	"github.com/yukikurage/directory-api/internal/models"
)

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	env.createPerson(t, "ann", "s3cret", "Engineering")

	w := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "ann",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	decode(t, w, &response)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, "ann", response.Username)
	assert.Equal(t, "Person ann", response.Name)

	var logins int64
	require.NoError(t, env.db.Model(&models.LoginEvent{}).Count(&logins).Error)
	assert.Equal(t, int64(1), logins)
}

func TestAuthHandler_LoginFailuresAreUniform(t *testing.T) {
	env := setupTestEnv(t)
	env.createPerson(t, "ann", "s3cret", "Engineering")

	wrongPassword := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "ann",
		"password": "nope",
	})
	unknownUser := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "ghost",
		"password": "s3cret",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())

	var apiErr apierrors.APIError
	decode(t, wrongPassword, &apiErr)
	assert.Equal(t, apierrors.ErrCodeUnauthorized, apiErr.Code)

	var logins int64
	require.NoError(t, env.db.Model(&models.LoginEvent{}).Count(&logins).Error)
	assert.Equal(t, int64(0), logins)
}

func TestAuthHandler_LoginRequiresBody(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "ann"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t)

	w := env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var principal dto.PrincipalDTO
	decode(t, w, &principal)
	assert.Equal(t, "admin", principal.Username)

	w = env.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/api/units", "/api/positions", "/api/persons", "/api/stats", "/api/me"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = env.do(t, http.MethodGet, path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
