package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

func uintPtr(v uint) *uint { return &v }

func newWorkFixture() (WorkService, *fakeWorkRepo) {
	repo := &fakeWorkRepo{works: map[uint]*models.Work{}}

	owned := &models.Work{Name: "Edificio Centro", AdminID: uintPtr(10)}
	owned.ID = 1
	repo.works[1] = owned

	other := &models.Work{Name: "Torre Norte", AdminID: uintPtr(20)}
	other.ID = 2
	repo.works[2] = other

	unassigned := &models.Work{Name: "Bodega Sur"}
	unassigned.ID = 3
	repo.works[3] = unassigned

	return NewWorkService(repo), repo
}

func TestWorkGetAdminSeesAny(t *testing.T) {
	svc, _ := newWorkFixture()
	admin := Caller{ID: 99, Role: models.UserRoleAdmin}

	work, err := svc.Get(context.Background(), admin, 2)
	require.NoError(t, err)
	assert.Equal(t, "Torre Norte", work.Name)
}

func TestWorkGetOwnerAllowed(t *testing.T) {
	svc, _ := newWorkFixture()
	owner := Caller{ID: 10, Role: models.UserRoleUser}

	work, err := svc.Get(context.Background(), owner, 1)
	require.NoError(t, err)
	assert.Equal(t, "Edificio Centro", work.Name)
}

func TestWorkGetNonOwnerForbidden(t *testing.T) {
	svc, _ := newWorkFixture()
	stranger := Caller{ID: 10, Role: models.UserRoleUser}

	_, err := svc.Get(context.Background(), stranger, 2)
	requireAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)

	// A work with no assigned admin is not visible to regular users either.
	_, err = svc.Get(context.Background(), stranger, 3)
	requireAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)
}

func TestWorkGetMissing(t *testing.T) {
	svc, _ := newWorkFixture()
	admin := Caller{ID: 99, Role: models.UserRoleAdmin}

	_, err := svc.Get(context.Background(), admin, 42)
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestWorkListAdminSeesAll(t *testing.T) {
	svc, _ := newWorkFixture()
	admin := Caller{ID: 99, Role: models.UserRoleAdmin}

	page, err := svc.List(context.Background(), admin, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, int64(1), page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Data.([]models.Work), 3)
}

func TestWorkListUserSeesOnlyOwned(t *testing.T) {
	svc, _ := newWorkFixture()
	owner := Caller{ID: 10, Role: models.UserRoleUser}

	page, err := svc.List(context.Background(), owner, 1, 10)
	require.NoError(t, err)

	works := page.Data.([]models.Work)
	require.Len(t, works, 1)
	assert.Equal(t, "Edificio Centro", works[0].Name)
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestWorkListPagination(t *testing.T) {
	svc, _ := newWorkFixture()
	admin := Caller{ID: 99, Role: models.UserRoleAdmin}

	page, err := svc.List(context.Background(), admin, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Data.([]models.Work), 1)
	assert.Equal(t, "Bodega Sur", page.Data.([]models.Work)[0].Name)
}

func TestWorkCreate(t *testing.T) {
	repo := &fakeWorkRepo{works: map[uint]*models.Work{}}
	svc := NewWorkService(repo)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	work, err := svc.Create(context.Background(), &dto.CreateWorkRequest{
		Name:        "Obra Nueva",
		StartDate:   start,
		TotalBudget: decimal.NewFromInt(500000),
		AdminID:     uintPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "Obra Nueva", work.Name)
	assert.Equal(t, uint(10), *work.AdminID)
}

func TestWorkUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc, repo := newWorkFixture()

	name := "Edificio Centro Renovado"
	updated, err := svc.Update(context.Background(), 1, &dto.UpdateWorkRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, name, updated.Name)
	assert.Equal(t, uint(10), *repo.works[1].AdminID, "unprovided fields stay untouched")
}

func TestWorkDelete(t *testing.T) {
	svc, repo := newWorkFixture()

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.NotContains(t, repo.works, uint(1))

	err := svc.Delete(context.Background(), 1)
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}
