package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/directory-api/internal/models"
	"github.com/yukikurage/directory-api/internal/repository"
	"github.com/yukikurage/directory-api/internal/revocation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	clock   *fakeClock
	service *AuthService
	persons *PersonService
	ctx     context.Context
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.ctx = context.Background()
	s.clock = &fakeClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}

	tokens, err := NewTokenService(testSecret, DefaultTokenTTL,
		WithClock(s.clock.Now),
		WithRevocationStore(revocation.NewMemoryStore()),
	)
	s.Require().NoError(err)

	personRepo := repository.NewPersonRepository(s.db)
	s.service = NewAuthService(personRepo, repository.NewLoginEventRepository(s.db), tokens, zap.NewNop())
	s.service.now = s.clock.Now
	s.persons = NewPersonService(personRepo)

	_, err = s.persons.CreatePerson(s.ctx, CreatePersonInput{
		Name:     "Ann Lee",
		Username: "ann",
		Password: "s3cret",
		UnitName: "Engineering",
	})
	s.Require().NoError(err)
}

func (s *AuthServiceTestSuite) loginCount(username string) int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.LoginEvent{}).Where("username = ?", username).Count(&count).Error)
	return count
}

func (s *AuthServiceTestSuite) TestAuthenticate_Success() {
	session, err := s.service.Authenticate(s.ctx, "ann", "s3cret")
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
	s.True(s.clock.t.Add(time.Hour).Equal(session.ExpiresAt))

	principal, err := s.service.Verify(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("Ann Lee", principal.Name)
	s.Equal("ann", principal.Username)

	s.Equal(int64(1), s.loginCount("ann"))

	var event models.LoginEvent
	s.Require().NoError(s.db.First(&event).Error)
	s.True(s.clock.t.Equal(event.OccurredAt))
}

func (s *AuthServiceTestSuite) TestAuthenticate_WrongPassword() {
	_, err := s.service.Authenticate(s.ctx, "ann", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Equal(int64(0), s.loginCount("ann"), "failed attempts are not recorded")
}

func (s *AuthServiceTestSuite) TestAuthenticate_UnknownUser() {
	_, err := s.service.Authenticate(s.ctx, "nobody", "s3cret")
	s.ErrorIs(err, ErrPersonNotFound)
	s.ErrorIs(err, ErrNotFound)
	s.Equal(int64(0), s.loginCount("nobody"))
}

func (s *AuthServiceTestSuite) TestSessionExpiresAfterOneHour() {
	session, err := s.service.Authenticate(s.ctx, "ann", "s3cret")
	s.Require().NoError(err)

	s.clock.Advance(30 * time.Minute)
	_, err = s.service.Verify(s.ctx, session.Token)
	s.NoError(err)

	s.clock.Advance(31 * time.Minute)
	_, err = s.service.Verify(s.ctx, session.Token)
	s.ErrorIs(err, ErrTokenExpired)
}

func (s *AuthServiceTestSuite) TestLogout_RevokesToken() {
	session, err := s.service.Authenticate(s.ctx, "ann", "s3cret")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx, session.Principal))

	_, err = s.service.Verify(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestEveryLoginIsAppended() {
	for i := 0; i < 3; i++ {
		_, err := s.service.Authenticate(s.ctx, "ann", "s3cret")
		s.Require().NoError(err)
		s.clock.Advance(time.Minute)
	}
	s.Equal(int64(3), s.loginCount("ann"))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "S3cret"))

	again, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "digests are salted")

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrPasswordRequired)
	assert.ErrorIs(t, err, ErrValidation)
}
