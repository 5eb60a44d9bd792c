package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
	"github.com/zyrnwastaken/mini-crm/internal/repository"
)

func TestCustomerCreate_AssignsIDAndTimestamps(t *testing.T) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), &domain.Customer{
		Name:  "Acme Ltd",
		Email: "sales@acme.test",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	stored, err := repo.GetCustomerByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", stored.Name)
}

func TestCustomerCreate_BlankName(t *testing.T) {
	svc := NewCustomerService(newMockCustomerRepo())

	_, err := svc.Create(context.Background(), &domain.Customer{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCustomerUpdate_NotFound(t *testing.T) {
	svc := NewCustomerService(newMockCustomerRepo())

	_, err := svc.Update(context.Background(), &domain.Customer{
		ID:   uuid.New(),
		Name: "Ghost",
	})
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
}

func TestCustomerUpdate_ReturnsStoredRecord(t *testing.T) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), &domain.Customer{Name: "Before"})
	require.NoError(t, err)

	created.Name = "After"
	updated, err := svc.Update(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
}
