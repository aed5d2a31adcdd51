package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func engineFor(migrator Migrator, err error) Engine {
	return func(sourceURL, databaseURL string) (Migrator, error) {
		return migrator, err
	}
}

func TestMigration_Up(t *testing.T) {
	migrator := new(MockMigrator)
	migrator.On("Up").Return(nil)
	migrator.On("Close").Return(nil, nil)

	mg := New("migrations", engineFor(migrator, nil))

	err := mg.Up("postgres://localhost:5432/passvault")
	assert.NoError(t, err)
	migrator.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	migrator := new(MockMigrator)
	migrator.On("Up").Return(migrate.ErrNoChange)
	migrator.On("Close").Return(nil, nil)

	mg := New("migrations", engineFor(migrator, nil))

	err := mg.Up("postgres://localhost:5432/passvault")
	assert.NoError(t, err, "an already current schema is not an error")
}

func TestMigration_Up_Error(t *testing.T) {
	upErr := errors.New("dirty database")

	migrator := new(MockMigrator)
	migrator.On("Up").Return(upErr)
	migrator.On("Close").Return(nil, nil)

	mg := New("migrations", engineFor(migrator, nil))

	err := mg.Up("postgres://localhost:5432/passvault")
	assert.ErrorIs(t, err, upErr)
}

func TestMigration_Up_EngineError(t *testing.T) {
	engineErr := errors.New("unknown driver")

	mg := New("migrations", engineFor(nil, engineErr))

	err := mg.Up("bogus://uri")
	assert.ErrorIs(t, err, engineErr)
}

func TestMigration_Up_CloseError(t *testing.T) {
	closeErr := errors.New("source close failed")

	migrator := new(MockMigrator)
	migrator.On("Up").Return(nil)
	migrator.On("Close").Return(closeErr, nil)

	mg := New("migrations", engineFor(migrator, nil))

	err := mg.Up("postgres://localhost:5432/passvault")
	assert.ErrorIs(t, err, closeErr)
}
