package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/directory-api/internal/database"
	"github.com/yukikurage/directory-api/internal/dto"
	"github.com/yukikurage/directory-api/internal/metrics"
	"github.com/yukikurage/directory-api/internal/models"
	"github.com/yukikurage/directory-api/internal/repository"
	"github.com/yukikurage/directory-api/internal/revocation"
	"github.com/yukikurage/directory-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	persons *services.PersonService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	logger := zap.NewNop()
	tokens, err := services.NewTokenService("handler-test-secret-that-is-32-chars", time.Hour,
		services.WithRevocationStore(revocation.NewMemoryStore()))
	require.NoError(t, err)

	personRepo := repository.NewPersonRepository(db)
	authService := services.NewAuthService(personRepo, repository.NewLoginEventRepository(db), tokens, logger)
	personService := services.NewPersonService(personRepo)

	r := gin.New()
	Router{
		Auth:      NewAuthHandler(authService, metrics.New("test"), logger),
		Units:     NewUnitHandler(services.NewUnitService(repository.NewUnitRepository(db)), logger),
		Positions: NewPositionHandler(services.NewPositionService(repository.NewPositionRepository(db)), logger),
		Persons:   NewPersonHandler(personService, logger),
		Stats:     NewStatsHandler(services.NewStatsService(repository.NewStatsRepository(db)), logger),
		Verifier:  authService,
		Logger:    logger,
	}.RegisterRoutes(r)
	r.GET("/health", Health(func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	}))

	return testEnv{
		db:      db,
		router:  r,
		persons: personService,
	}
}

// do sends a JSON request; token may be empty.
func (e testEnv) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e testEnv) createPerson(t *testing.T, username, password, unit string) *models.Person {
	t.Helper()
	person, err := e.persons.CreatePerson(context.Background(), services.CreatePersonInput{
		Name:     "Person " + username,
		Username: username,
		Password: password,
		UnitName: unit,
	})
	require.NoError(t, err)
	return person
}

// login creates a person and returns a bearer token for it.
func (e testEnv) login(t *testing.T) string {
	t.Helper()
	e.createPerson(t, "admin", "adminpass", "Administration")

	w := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin",
		"password": "adminpass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	return response.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
