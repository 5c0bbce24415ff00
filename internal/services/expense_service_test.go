package services

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/storage"
	"github.com/mati-gonz/control-obras-dasco-api/internal/transcode"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

// --- in-memory repository fakes ---

type fakeExpenseRepo struct {
	nextID   uint
	expenses map[uint]*models.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uint]*models.Expense)}
}

func cloneExpense(e *models.Expense) *models.Expense {
	c := *e
	return &c
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *models.Expense) error {
	r.nextID++
	expense.ID = r.nextID
	r.expenses[expense.ID] = cloneExpense(expense)
	return nil
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id uint) (*models.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneExpense(e), nil
}

func (r *fakeExpenseRepo) FindByPart(_ context.Context, partID uint) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range r.expenses {
		if e.PartID != nil && *e.PartID == partID {
			out = append(out, *cloneExpense(e))
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, expense *models.Expense, attrs map[string]interface{}) error {
	e, ok := r.expenses[expense.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range attrs {
		switch k {
		case "amount":
			e.Amount = v.(decimal.Decimal)
		case "description":
			desc := v.(string)
			e.Description = &desc
		case "date":
			e.Date = v.(time.Time)
		case "receipt_url":
			url := v.(string)
			e.ReceiptURL = &url
		case "receipt_extension":
			ext := v.(string)
			e.ReceiptExtension = &ext
		}
	}
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, expense *models.Expense) error {
	delete(r.expenses, expense.ID)
	return nil
}

type fakePartRepo struct {
	parts map[uint]*models.Part
}

func (r *fakePartRepo) Create(_ context.Context, part *models.Part) error {
	r.parts[part.ID] = part
	return nil
}

func (r *fakePartRepo) FindByID(_ context.Context, id uint) (*models.Part, error) {
	p, ok := r.parts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakePartRepo) FindByWork(_ context.Context, workID uint) ([]models.Part, error) {
	var out []models.Part
	for _, p := range r.parts {
		if p.WorkID == workID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePartRepo) FindBySubgroup(_ context.Context, subgroupID uint) ([]models.Part, error) {
	var out []models.Part
	for _, p := range r.parts {
		if p.SubgroupID != nil && *p.SubgroupID == subgroupID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePartRepo) Update(_ context.Context, part *models.Part, attrs map[string]interface{}) error {
	if name, ok := attrs["name"].(string); ok {
		r.parts[part.ID].Name = name
	}
	return nil
}

func (r *fakePartRepo) Delete(_ context.Context, part *models.Part) error {
	delete(r.parts, part.ID)
	return nil
}

type fakeWorkRepo struct {
	works map[uint]*models.Work
}

func (r *fakeWorkRepo) Create(_ context.Context, work *models.Work) error {
	r.works[work.ID] = work
	return nil
}

func (r *fakeWorkRepo) FindByID(_ context.Context, id uint) (*models.Work, error) {
	w, ok := r.works[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *w
	return &c, nil
}

func (r *fakeWorkRepo) FindPage(_ context.Context, offset, limit int) ([]models.Work, int64, error) {
	all := r.sorted(func(*models.Work) bool { return true })
	return pageOf(all, offset, limit), int64(len(all)), nil
}

func (r *fakeWorkRepo) FindPageByAdmin(_ context.Context, adminID uint, offset, limit int) ([]models.Work, int64, error) {
	owned := r.sorted(func(w *models.Work) bool {
		return w.AdminID != nil && *w.AdminID == adminID
	})
	return pageOf(owned, offset, limit), int64(len(owned)), nil
}

func (r *fakeWorkRepo) CountByAdmin(_ context.Context, adminID uint) (int64, error) {
	owned := r.sorted(func(w *models.Work) bool {
		return w.AdminID != nil && *w.AdminID == adminID
	})
	return int64(len(owned)), nil
}

func (r *fakeWorkRepo) sorted(keep func(*models.Work) bool) []models.Work {
	var out []models.Work
	for _, w := range r.works {
		if keep(w) {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func pageOf(all []models.Work, offset, limit int) []models.Work {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (r *fakeWorkRepo) Update(_ context.Context, work *models.Work, attrs map[string]interface{}) error {
	if name, ok := attrs["name"].(string); ok {
		r.works[work.ID].Name = name
	}
	return nil
}

func (r *fakeWorkRepo) Delete(_ context.Context, work *models.Work) error {
	delete(r.works, work.ID)
	return nil
}

// countingStorage wraps an ObjectStorage, counting calls and optionally
// forcing failures.
type countingStorage struct {
	inner   storage.ObjectStorage
	puts    int
	deletes int
	signs   int

	putErr    error
	deleteErr error
}

func (c *countingStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	c.puts++
	if c.putErr != nil {
		return "", c.putErr
	}
	return c.inner.Put(ctx, key, data, contentType)
}

func (c *countingStorage) Delete(ctx context.Context, keyOrLocation string) error {
	c.deletes++
	if c.deleteErr != nil {
		return c.deleteErr
	}
	return c.inner.Delete(ctx, keyOrLocation)
}

func (c *countingStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	c.signs++
	return c.inner.SignedURL(ctx, key, ttl)
}

func (c *countingStorage) Key(location string) string {
	return c.inner.Key(location)
}

// --- fixture ---

const testThreshold = 1024

type fixture struct {
	service  ExpenseService
	expenses *fakeExpenseRepo
	parts    *fakePartRepo
	works    *fakeWorkRepo
	memory   *storage.MemoryStorage
	counting *countingStorage
}

func newFixture() *fixture {
	works := &fakeWorkRepo{works: map[uint]*models.Work{}}
	parts := &fakePartRepo{parts: map[uint]*models.Part{}}

	work := &models.Work{Name: "Edificio Centro"}
	work.ID = 1
	works.works[1] = work

	part := &models.Part{Name: "Fundaciones", WorkID: 1}
	part.ID = 1
	parts.parts[1] = part

	expenses := newFakeExpenseRepo()
	memory := storage.NewMemoryStorage("")
	counting := &countingStorage{inner: memory}
	transcoder := transcode.New(testThreshold, 100, 80)

	service := NewExpenseService(expenses, parts, works, transcoder, counting, time.Hour)
	return &fixture{
		service:  service,
		expenses: expenses,
		parts:    parts,
		works:    works,
		memory:   memory,
		counting: counting,
	}
}

func smallPDF() *dto.ReceiptFile {
	return &dto.ReceiptFile{Data: make([]byte, 512), MIMEType: "application/pdf", Extension: ".pdf"}
}

func largePDF() *dto.ReceiptFile {
	data := make([]byte, testThreshold+512)
	rng := rand.New(rand.NewSource(1))
	_, _ = rng.Read(data)
	return &dto.ReceiptFile{Data: data, MIMEType: "application/pdf", Extension: ".pdf"}
}

func createInput() *dto.CreateExpenseInput {
	return &dto.CreateExpenseInput{
		Amount: decimal.NewFromInt(1500),
		Date:   time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
	}
}

func requireAppError(t *testing.T, err error, code apperrors.ErrorCode, status int) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
}

// --- tests ---

func TestCreateWithoutReceipt(t *testing.T) {
	f := newFixture()
	userID := uint(9)

	expense, err := f.service.Create(context.Background(), 1, &userID, createInput(), nil)
	require.NoError(t, err)

	assert.False(t, expense.HasReceipt())
	assert.Equal(t, uint(1), expense.ID)
	assert.Equal(t, uint(9), *expense.UserID)
	assert.Equal(t, 0, f.counting.puts)
	assert.Equal(t, 0, f.counting.deletes)
}

func TestCreateWithReceiptStoresObject(t *testing.T) {
	f := newFixture()

	expense, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	require.NoError(t, err)

	require.True(t, expense.HasReceipt())
	assert.Equal(t, "memory://bucket/edificio-centro/fundaciones/receipt-1.pdf", *expense.ReceiptURL)
	assert.Equal(t, ".pdf", *expense.ReceiptExtension)
	assert.True(t, f.memory.Exists("edificio-centro/fundaciones/receipt-1.pdf"))

	stored, err := f.expenses.FindByID(context.Background(), expense.ID)
	require.NoError(t, err)
	assert.Equal(t, *expense.ReceiptURL, *stored.ReceiptURL)
}

func TestCreateLargePDFStoredGzipped(t *testing.T) {
	f := newFixture()

	expense, err := f.service.Create(context.Background(), 1, nil, createInput(), largePDF())
	require.NoError(t, err)

	assert.Equal(t, "memory://bucket/edificio-centro/fundaciones/receipt-1.pdf.gz", *expense.ReceiptURL)
	assert.Equal(t, ".pdf.gz", *expense.ReceiptExtension)
	assert.True(t, f.memory.Exists("edificio-centro/fundaciones/receipt-1.pdf.gz"))
}

func TestCreateMissingPart(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), 99, nil, createInput(), smallPDF())
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)

	assert.Empty(t, f.expenses.expenses, "no row may be created for a missing part")
	assert.Equal(t, 0, f.counting.puts)
}

func TestCreateEmptySegmentFailsBeforeInsert(t *testing.T) {
	f := newFixture()
	f.works.works[1].Name = "###"

	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	requireAppError(t, err, apperrors.CodePreconditionFailed, http.StatusBadRequest)

	assert.Empty(t, f.expenses.expenses, "segment validation must run before the insert")
	assert.Equal(t, 0, f.counting.puts)
}

func TestCreateStorageFailureLeavesRowWithoutReceipt(t *testing.T) {
	f := newFixture()
	f.counting.putErr = errors.New("bucket unavailable")

	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	requireAppError(t, err, apperrors.CodeStorageError, http.StatusInternalServerError)

	// Partial state: the row stays, without receipt columns.
	stored, ferr := f.expenses.FindByID(context.Background(), 1)
	require.NoError(t, ferr)
	assert.False(t, stored.HasReceipt())
}

func TestCreateCorruptImageFails(t *testing.T) {
	f := newFixture()
	file := largePDF()
	file.MIMEType = "image/jpeg"
	file.Extension = ".jpg"

	_, err := f.service.Create(context.Background(), 1, nil, createInput(), file)
	requireAppError(t, err, apperrors.CodeTranscodeFailed, http.StatusUnprocessableEntity)

	// The row was inserted before the pipeline ran and survives without a
	// receipt; nothing reached storage.
	stored, ferr := f.expenses.FindByID(context.Background(), 1)
	require.NoError(t, ferr)
	assert.False(t, stored.HasReceipt())
	assert.Equal(t, 0, f.counting.puts)
}

func TestUpdateFieldsOnlyLeavesReceiptUntouched(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	require.NoError(t, err)
	putsAfterCreate := f.counting.puts

	amount := decimal.NewFromInt(2000)
	updated, err := f.service.Update(context.Background(), 1, &dto.UpdateExpenseInput{Amount: &amount}, nil)
	require.NoError(t, err)

	assert.True(t, amount.Equal(updated.Amount))
	require.True(t, updated.HasReceipt())
	assert.Equal(t, "memory://bucket/edificio-centro/fundaciones/receipt-1.pdf", *updated.ReceiptURL)
	assert.Equal(t, putsAfterCreate, f.counting.puts)
	assert.Equal(t, 0, f.counting.deletes)
}

func TestUpdateReceiptKeepsOriginalKeyPrefix(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	require.NoError(t, err)

	// Renaming the work after creation must not move the storage location.
	f.works.works[1].Name = "Torre Norte"

	replacement := largePDF()
	updated, err := f.service.Update(context.Background(), 1, &dto.UpdateExpenseInput{}, replacement)
	require.NoError(t, err)

	assert.Equal(t, "memory://bucket/edificio-centro/fundaciones/receipt-1.pdf.gz", *updated.ReceiptURL)
	assert.Equal(t, ".pdf.gz", *updated.ReceiptExtension)
	assert.True(t, f.memory.Exists("edificio-centro/fundaciones/receipt-1.pdf.gz"))
	assert.False(t, f.memory.Exists("edificio-centro/fundaciones/receipt-1.pdf"), "previous object must be removed")
	assert.Equal(t, 1, f.counting.deletes)
}

func TestUpdateReceiptSurvivesFailedDelete(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	require.NoError(t, err)

	f.counting.deleteErr = errors.New("storage down")

	updated, err := f.service.Update(context.Background(), 1, &dto.UpdateExpenseInput{}, largePDF())
	require.NoError(t, err, "a failed delete of the previous receipt must not block the replacement")
	assert.Equal(t, ".pdf.gz", *updated.ReceiptExtension)
}

func TestUpdateMissingExpense(t *testing.T) {
	f := newFixture()
	_, err := f.service.Update(context.Background(), 42, &dto.UpdateExpenseInput{}, nil)
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestDeleteWithoutReceiptTouchesNoStorage(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), nil)
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), 1))

	assert.Equal(t, 0, f.counting.deletes, "no object-store call for an expense without a receipt")
	_, err = f.expenses.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteWithReceiptRemovesObject(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), 1))

	assert.Equal(t, 1, f.counting.deletes)
	assert.False(t, f.memory.Exists("edificio-centro/fundaciones/receipt-1.pdf"))
	assert.Equal(t, 0, f.memory.Len())
}

func TestDeleteSucceedsWhenObjectAlreadyGone(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	require.NoError(t, err)

	// Simulate an object removed out of band.
	require.NoError(t, f.memory.Delete(context.Background(), "edificio-centro/fundaciones/receipt-1.pdf"))

	require.NoError(t, f.service.Delete(context.Background(), 1))
	_, err = f.expenses.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteRowSurvivesStorageFailure(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), smallPDF())
	require.NoError(t, err)

	f.counting.deleteErr = errors.New("storage down")

	require.NoError(t, f.service.Delete(context.Background(), 1), "row deletion proceeds past a failed storage delete")
	_, err = f.expenses.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReceiptURL(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), largePDF())
	require.NoError(t, err)

	resp, err := f.service.ReceiptURL(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "gz", resp.FileExtension)

	// The minted URL must actually resolve against the store.
	data, contentType, err := f.memory.Read(resp.SignedURL)
	require.NoError(t, err)
	assert.Equal(t, "application/gzip", contentType)
	assert.NotEmpty(t, data)
}

func TestReceiptURLWithoutReceipt(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), 1, nil, createInput(), nil)
	require.NoError(t, err)

	_, err = f.service.ReceiptURL(context.Background(), 1)
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}
