package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/directory-api/internal/models"
	"github.com/yukikurage/directory-api/internal/repository"
	"gorm.io/gorm"
)

type PersonServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *PersonService
	ctx     context.Context
}

func (s *PersonServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewPersonService(repository.NewPersonRepository(s.db))
	s.ctx = context.Background()
	createTestPositions(s.T(), s.db, "Engineer", "Manager")
}

func (s *PersonServiceTestSuite) createAnn() *models.Person {
	joined := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	person, err := s.service.CreatePerson(s.ctx, CreatePersonInput{
		Name:       "Ann Lee",
		Username:   "ann",
		Password:   "s3cret",
		UnitName:   "Engineering",
		JoinedDate: &joined,
		Positions:  []string{"Engineer"},
	})
	s.Require().NoError(err)
	return person
}

func positionNames(person *models.Person) []string {
	names := make([]string, 0, len(person.Positions))
	for _, link := range person.Positions {
		names = append(names, link.PositionName)
	}
	return names
}

func (s *PersonServiceTestSuite) TestCreatePerson() {
	person := s.createAnn()

	s.Equal("Ann Lee", person.Name)
	s.Equal("ann", person.Username)
	s.NotEqual("s3cret", person.PasswordHash)
	s.True(CheckPassword(person.PasswordHash, "s3cret"))
	s.Require().NotNil(person.Unit)
	s.Equal("Engineering", person.Unit.Name)
	s.Equal([]string{"Engineer"}, positionNames(person))
	s.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), person.JoinedDate.UTC())
}

func (s *PersonServiceTestSuite) TestCreatePerson_DefaultsJoinedDate() {
	fixed := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)
	s.service.now = func() time.Time { return fixed }

	person, err := s.service.CreatePerson(s.ctx, CreatePersonInput{
		Name: "Bob", Username: "bob", Password: "pw", UnitName: "Sales",
	})
	s.Require().NoError(err)
	s.True(fixed.Equal(person.JoinedDate))
	s.Empty(person.Positions)
}

func (s *PersonServiceTestSuite) TestCreatePerson_Validation() {
	cases := map[string]CreatePersonInput{
		"name":     {Username: "x", Password: "pw", UnitName: "U"},
		"username": {Name: "X", Password: "pw", UnitName: "U"},
		"unit":     {Name: "X", Username: "x", Password: "pw"},
		"password": {Name: "X", Username: "x", UnitName: "U"},
		"position": {Name: "X", Username: "x", Password: "pw", UnitName: "U", Positions: []string{" "}},
	}
	for name, input := range cases {
		_, err := s.service.CreatePerson(s.ctx, input)
		s.ErrorIs(err, ErrValidation, name)
	}

	var count int64
	s.Require().NoError(s.db.Model(&models.Person{}).Count(&count).Error)
	s.Equal(int64(0), count)
}

func (s *PersonServiceTestSuite) TestCreatePerson_UnknownPosition() {
	_, err := s.service.CreatePerson(s.ctx, CreatePersonInput{
		Name: "Dan", Username: "dan", Password: "pw", UnitName: "Legal",
		Positions: []string{"Astronaut"},
	})
	s.Require().ErrorIs(err, ErrValidation)
	s.Contains(err.Error(), "Astronaut")

	var units int64
	s.Require().NoError(s.db.Model(&models.Unit{}).Count(&units).Error)
	s.Equal(int64(0), units)
}

func (s *PersonServiceTestSuite) TestCreatePerson_DuplicateUsername() {
	s.createAnn()

	_, err := s.service.CreatePerson(s.ctx, CreatePersonInput{
		Name: "Other Ann", Username: "ann", Password: "pw", UnitName: "Sales",
	})
	s.ErrorIs(err, ErrDuplicate)
}

func (s *PersonServiceTestSuite) TestUpdatePerson_ClearsPositions() {
	ann := s.createAnn()

	empty := []string{}
	updated, err := s.service.UpdatePerson(s.ctx, ann.ID, UpdatePersonInput{Positions: &empty})
	s.Require().NoError(err)
	s.Empty(updated.Positions)
	s.Equal("Engineering", updated.Unit.Name)
}

func (s *PersonServiceTestSuite) TestUpdatePerson_PartialFields() {
	ann := s.createAnn()

	name := "Ann Smith"
	unit := "Research"
	updated, err := s.service.UpdatePerson(s.ctx, ann.ID, UpdatePersonInput{Name: &name, UnitName: &unit})
	s.Require().NoError(err)
	s.Equal("Ann Smith", updated.Name)
	s.Equal("Research", updated.UnitName)
	s.Require().NotNil(updated.Unit)
	s.Equal("Research", updated.Unit.Name)
	s.Equal([]string{"Engineer"}, positionNames(updated), "positions untouched when omitted")
	s.True(CheckPassword(updated.PasswordHash, "s3cret"), "password untouched when omitted")
}

func (s *PersonServiceTestSuite) TestUpdatePerson_ChangesPassword() {
	ann := s.createAnn()

	password := "n3w"
	updated, err := s.service.UpdatePerson(s.ctx, ann.ID, UpdatePersonInput{Password: &password})
	s.Require().NoError(err)
	s.True(CheckPassword(updated.PasswordHash, "n3w"))
	s.False(CheckPassword(updated.PasswordHash, "s3cret"))
}

func (s *PersonServiceTestSuite) TestUpdatePerson_UsernameLockedAfterLogin() {
	ann := s.createAnn()
	recordLogins(s.T(), s.db, "ann", 1, time.Now().UTC())

	username := "annie"
	_, err := s.service.UpdatePerson(s.ctx, ann.ID, UpdatePersonInput{Username: &username})
	s.ErrorIs(err, ErrValidation)
}

func (s *PersonServiceTestSuite) TestUpdatePerson_DuplicateUsername() {
	s.createAnn()
	bob, err := s.service.CreatePerson(s.ctx, CreatePersonInput{
		Name: "Bob", Username: "bob", Password: "pw", UnitName: "Sales",
	})
	s.Require().NoError(err)

	username := "ann"
	_, err = s.service.UpdatePerson(s.ctx, bob.ID, UpdatePersonInput{Username: &username})
	s.ErrorIs(err, ErrDuplicate)
}

func (s *PersonServiceTestSuite) TestUpdatePerson_NotFound() {
	name := "Ghost"
	_, err := s.service.UpdatePerson(s.ctx, 404, UpdatePersonInput{Name: &name})
	s.ErrorIs(err, ErrPersonNotFound)
}

func (s *PersonServiceTestSuite) TestReplacePositions() {
	ann := s.createAnn()

	result, err := s.service.ReplacePositions(s.ctx, ann.ID, []string{"Manager", "Engineer", "Manager"})
	s.Require().NoError(err)
	s.Equal([]string{"Manager"}, result.Added)
	s.Empty(result.Removed)

	result, err = s.service.ReplacePositions(s.ctx, ann.ID, []string{"Engineer", "Manager"})
	s.Require().NoError(err)
	s.False(result.Changed())

	_, err = s.service.ReplacePositions(s.ctx, ann.ID, []string{"Manager", "Pilot"})
	s.ErrorIs(err, ErrValidation)

	got, err := s.service.GetPerson(s.ctx, ann.ID)
	s.Require().NoError(err)
	s.Equal([]string{"Engineer", "Manager"}, positionNames(got))

	_, err = s.service.ReplacePositions(s.ctx, 404, []string{"Engineer"})
	s.ErrorIs(err, ErrPersonNotFound)
}

func (s *PersonServiceTestSuite) TestDeletePerson() {
	ann := s.createAnn()

	s.Require().NoError(s.service.DeletePerson(s.ctx, ann.ID))

	_, err := s.service.GetPerson(s.ctx, ann.ID)
	s.ErrorIs(err, ErrPersonNotFound)
	s.ErrorIs(s.service.DeletePerson(s.ctx, ann.ID), ErrPersonNotFound)

	var units int64
	s.Require().NoError(s.db.Model(&models.Unit{}).Count(&units).Error)
	s.Equal(int64(1), units, "units outlive their persons")
}

func (s *PersonServiceTestSuite) TestListPersons() {
	s.createAnn()
	_, err := s.service.CreatePerson(s.ctx, CreatePersonInput{
		Name: "Bob", Username: "bob", Password: "pw", UnitName: "Engineering",
	})
	s.Require().NoError(err)

	persons, err := s.service.ListPersons(s.ctx)
	s.Require().NoError(err)
	s.Len(persons, 2)

	var units int64
	s.Require().NoError(s.db.Model(&models.Unit{}).Count(&units).Error)
	s.Equal(int64(1), units)
}

func TestPersonServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PersonServiceTestSuite))
}
