package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/logger"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/pathseg"
	"github.com/mati-gonz/control-obras-dasco-api/internal/repositories"
	"github.com/mati-gonz/control-obras-dasco-api/internal/storage"
	"github.com/mati-gonz/control-obras-dasco-api/internal/transcode"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

// ExpenseService orchestrates the expense lifecycle together with its
// receipt attachment: transcoding the uploaded file, writing it to object
// storage under a deterministic key, and keeping the database row and the
// stored object consistent across create, update and delete.
type ExpenseService interface {
	Create(ctx context.Context, partID uint, userID *uint, in *dto.CreateExpenseInput, file *dto.ReceiptFile) (*models.Expense, error)
	Get(ctx context.Context, id uint) (*models.Expense, error)
	ListByPart(ctx context.Context, partID uint) ([]models.Expense, error)
	Update(ctx context.Context, id uint, in *dto.UpdateExpenseInput, file *dto.ReceiptFile) (*models.Expense, error)
	Delete(ctx context.Context, id uint) error
	ReceiptURL(ctx context.Context, id uint) (*dto.ReceiptResponse, error)
}

type expenseService struct {
	expenseRepo repositories.ExpenseRepository
	partRepo    repositories.PartRepository
	workRepo    repositories.WorkRepository
	transcoder  *transcode.Transcoder
	storage     storage.ObjectStorage
	signedTTL   time.Duration
}

func NewExpenseService(
	expenseRepo repositories.ExpenseRepository,
	partRepo repositories.PartRepository,
	workRepo repositories.WorkRepository,
	transcoder *transcode.Transcoder,
	store storage.ObjectStorage,
	signedTTL time.Duration,
) ExpenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		partRepo:    partRepo,
		workRepo:    workRepo,
		transcoder:  transcoder,
		storage:     store,
		signedTTL:   signedTTL,
	}
}

// Create inserts the expense row first (the storage key embeds the row id)
// and only then runs the receipt through transcode and storage. If the
// receipt pipeline fails after the insert, the row persists without receipt
// fields and the error is surfaced; that partial state is deliberate and is
// not rolled back.
func (s *expenseService) Create(ctx context.Context, partID uint, userID *uint, in *dto.CreateExpenseInput, file *dto.ReceiptFile) (*models.Expense, error) {
	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		return nil, notFoundOr(err, "Part not found")
	}
	work, err := s.workRepo.FindByID(ctx, part.WorkID)
	if err != nil {
		return nil, notFoundOr(err, "Work not found")
	}

	var workSeg, partSeg string
	if file != nil {
		// Segments are validated before any write so a name that reduces to
		// nothing fails the request instead of producing a malformed key.
		workSeg, partSeg = pathseg.Segment(work.Name), pathseg.Segment(part.Name)
		if workSeg == "" || partSeg == "" {
			return nil, apperrors.NewPreconditionError("Work or Part name yields an empty storage segment")
		}
	}

	expense := &models.Expense{
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		PartID:      &part.ID,
		SubgroupID:  in.SubgroupID,
		WorkID:      &work.ID,
		UserID:      userID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if file == nil {
		return expense, nil
	}

	location, ext, err := s.storeReceipt(ctx, workSeg, partSeg, expense.ID, file)
	if err != nil {
		// Row already exists; the caller sees the failure, the expense stays
		// without a receipt.
		return nil, err
	}

	attrs := map[string]interface{}{
		"receipt_url":       location,
		"receipt_extension": ext,
	}
	if err := s.expenseRepo.Update(ctx, expense, attrs); err != nil {
		logger.Error("receipt stored but row update failed",
			"expense_id", expense.ID, "location", location, "error", err.Error())
		return nil, apperrors.InternalError(err)
	}
	expense.ReceiptURL = &location
	expense.ReceiptExtension = &ext

	return expense, nil
}

func (s *expenseService) Get(ctx context.Context, id uint) (*models.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Expense not found")
	}
	return expense, nil
}

func (s *expenseService) ListByPart(ctx context.Context, partID uint) ([]models.Expense, error) {
	if _, err := s.partRepo.FindByID(ctx, partID); err != nil {
		return nil, notFoundOr(err, "Part not found")
	}
	expenses, err := s.expenseRepo.FindByPart(ctx, partID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return expenses, nil
}

// Update replaces the receipt only when a new file is supplied; otherwise
// only amount/description/date are touched. The storage key prefix is fixed
// at creation: when a previous receipt exists its prefix is reused, so
// renaming a Work or Part never forks the storage location.
func (s *expenseService) Update(ctx context.Context, id uint, in *dto.UpdateExpenseInput, file *dto.ReceiptFile) (*models.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Expense not found")
	}

	attrs := map[string]interface{}{}
	if in.Amount != nil {
		attrs["amount"] = *in.Amount
	}
	if in.Description != nil {
		attrs["description"] = *in.Description
	}
	if in.Date != nil {
		attrs["date"] = *in.Date
	}

	if file != nil {
		workSeg, partSeg, err := s.keySegments(ctx, expense)
		if err != nil {
			return nil, err
		}

		if expense.HasReceipt() {
			// Best-effort: a failed delete is logged, never surfaced, and
			// never blocks the replacement.
			if delErr := s.storage.Delete(ctx, *expense.ReceiptURL); delErr != nil {
				logger.Warn("failed to delete previous receipt",
					"expense_id", expense.ID, "url", *expense.ReceiptURL, "error", delErr.Error())
			}
		}

		location, ext, err := s.storeReceipt(ctx, workSeg, partSeg, expense.ID, file)
		if err != nil {
			return nil, err
		}
		attrs["receipt_url"] = location
		attrs["receipt_extension"] = ext
	}

	if len(attrs) > 0 {
		if err := s.expenseRepo.Update(ctx, expense, attrs); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	updated, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return updated, nil
}

// Delete removes the stored receipt best-effort and then destroys the row.
// Row deletion proceeds regardless of the storage outcome, and a missing
// object is not an error.
func (s *expenseService) Delete(ctx context.Context, id uint) error {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Expense not found")
	}

	if expense.HasReceipt() {
		if delErr := s.storage.Delete(ctx, *expense.ReceiptURL); delErr != nil {
			logger.Warn("failed to delete receipt from storage",
				"expense_id", expense.ID, "url", *expense.ReceiptURL, "error", delErr.Error())
		}
	}

	if err := s.expenseRepo.Delete(ctx, expense); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ReceiptURL mints a short-lived signed URL for the stored receipt. The raw
// bytes are never streamed through this path.
func (s *expenseService) ReceiptURL(ctx context.Context, id uint) (*dto.ReceiptResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Expense not found")
	}
	if !expense.HasReceipt() {
		return nil, apperrors.NewNotFoundError("Expense has no receipt")
	}

	key := s.storage.Key(*expense.ReceiptURL)
	signed, err := s.storage.SignedURL(ctx, key, s.signedTTL)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	return &dto.ReceiptResponse{
		SignedURL:     signed,
		FileExtension: extensionAfterLastDot(*expense.ReceiptURL),
	}, nil
}

// storeReceipt runs transcode and the object-store write, returning the
// stored location and extension.
func (s *expenseService) storeReceipt(ctx context.Context, workSeg, partSeg string, expenseID uint, file *dto.ReceiptFile) (string, string, error) {
	result, err := s.transcoder.Transcode(file.Data, file.MIMEType, file.Extension)
	if err != nil {
		return "", "", apperrors.TranscodeError(err)
	}

	key, err := storage.ReceiptKey(workSeg, partSeg, expenseID, result.Extension)
	if err != nil {
		return "", "", apperrors.NewPreconditionError(err.Error())
	}

	location, err := s.storage.Put(ctx, key, result.Data, result.ContentType)
	if err != nil {
		return "", "", apperrors.StorageError(err)
	}
	return location, result.Extension, nil
}

// keySegments resolves the work/part segments for an expense's storage key.
// With a prior receipt the segments come from its recorded key; otherwise
// they are derived from the current Part and Work names.
func (s *expenseService) keySegments(ctx context.Context, expense *models.Expense) (string, string, error) {
	if expense.HasReceipt() {
		key := s.storage.Key(*expense.ReceiptURL)
		parts := strings.Split(key, "/")
		if len(parts) == 3 && parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], nil
		}
		// Fall through to name derivation for legacy locations.
	}

	if expense.PartID == nil {
		return "", "", apperrors.NewPreconditionError("Expense has no part; cannot derive a storage key")
	}
	part, err := s.partRepo.FindByID(ctx, *expense.PartID)
	if err != nil {
		return "", "", notFoundOr(err, "Part not found")
	}
	work, err := s.workRepo.FindByID(ctx, part.WorkID)
	if err != nil {
		return "", "", notFoundOr(err, "Work not found")
	}

	workSeg, partSeg := pathseg.Segment(work.Name), pathseg.Segment(part.Name)
	if workSeg == "" || partSeg == "" {
		return "", "", apperrors.NewPreconditionError("Work or Part name yields an empty storage segment")
	}
	return workSeg, partSeg, nil
}

// extensionAfterLastDot implements the retrieval contract: the suffix after
// the last '.' of the stored receipt URL (for ".pdf.gz" that is "gz").
func extensionAfterLastDot(url string) string {
	idx := strings.LastIndexByte(url, '.')
	if idx == -1 || idx == len(url)-1 {
		return ""
	}
	return url[idx+1:]
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(message)
	}
	return apperrors.InternalError(err)
}
