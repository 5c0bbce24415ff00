package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mati-gonz/control-obras-dasco-api/internal/dto"
	"github.com/mati-gonz/control-obras-dasco-api/internal/middleware"
	"github.com/mati-gonz/control-obras-dasco-api/internal/services"
	"github.com/mati-gonz/control-obras-dasco-api/pkg/apperrors"
)

// receiptField is the single multipart file field accepted on expense
// create/update.
const receiptField = "receipt"

type ExpenseHandler struct {
	expenses    services.ExpenseService
	auth        gin.HandlerFunc
	maxFileSize int64
}

func NewExpenseHandler(expenses services.ExpenseService, authMW gin.HandlerFunc, maxFileSize int64) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, auth: authMW, maxFileSize: maxFileSize}
}

func (h *ExpenseHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/parts/:part_id/expenses", h.auth, h.Create)
	api.GET("/parts/:part_id/expenses", h.auth, h.ListByPart)

	expenses := api.Group("/expenses", h.auth)
	{
		expenses.GET("/:id", h.Get)
		expenses.GET("/:id/receipt", h.Receipt)
		expenses.PUT("/:id", h.Update)
		expenses.DELETE("/:id", h.Delete)
	}
}

// Create records an expense against a part, optionally attaching a receipt
// file supplied in the "receipt" multipart field.
func (h *ExpenseHandler) Create(c *gin.Context) {
	partID, ok := uintParam(c, "part_id")
	if !ok {
		return
	}

	amount, ok := amountField(c, true)
	if !ok {
		return
	}
	date, ok := dateField(c, true)
	if !ok {
		return
	}

	in := &dto.CreateExpenseInput{
		Amount:     amount,
		Date:       date,
		SubgroupID: optionalUintField(c, "subgroupId"),
		WorkID:     optionalUintField(c, "workId"),
	}
	if desc := c.PostForm("description"); desc != "" {
		in.Description = &desc
	}

	file, ok := h.receiptFile(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	expense, err := h.expenses.Create(c.Request.Context(), partID, &userID, in, file)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) ListByPart(c *gin.Context) {
	partID, ok := uintParam(c, "part_id")
	if !ok {
		return
	}

	expenses, err := h.expenses.ListByPart(c.Request.Context(), partID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": expenses})
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	expense, err := h.expenses.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Receipt returns a short-lived signed URL for the stored receipt, never
// the bytes themselves.
func (h *ExpenseHandler) Receipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	resp, err := h.expenses.ReceiptURL(c.Request.Context(), id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update mutates amount/description/date and, only when a new file is
// supplied, replaces the stored receipt.
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	in := &dto.UpdateExpenseInput{}
	if amount, present, ok := optionalAmountField(c); ok {
		if present {
			in.Amount = &amount
		}
	} else {
		return
	}
	if date, present, ok := optionalDateField(c); ok {
		if present {
			in.Date = &date
		}
	} else {
		return
	}
	if desc := c.PostForm("description"); desc != "" {
		in.Description = &desc
	}

	file, ok := h.receiptFile(c)
	if !ok {
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), id, in, file)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// receiptFile reads the optional "receipt" multipart field fully into
// memory. Returns (nil, true) when no file was supplied. Files over the
// configured ceiling are rejected before the pipeline runs.
func (h *ExpenseHandler) receiptFile(c *gin.Context) (*dto.ReceiptFile, bool) {
	header, err := c.FormFile(receiptField)
	if err != nil {
		if err == http.ErrMissingFile || strings.Contains(err.Error(), "no such file") {
			return nil, true
		}
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return nil, false
	}

	if header.Size > h.maxFileSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return nil, false
	}

	src, err := header.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return nil, false
	}
	if int64(len(data)) > h.maxFileSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return nil, false
	}

	mimeType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))

	return &dto.ReceiptFile{Data: data, MIMEType: mimeType, Extension: ext}, true
}

// --- form field helpers ---

func amountField(c *gin.Context, required bool) (decimal.Decimal, bool) {
	raw := c.PostForm("amount")
	if raw == "" {
		if required {
			apperrors.HandleError(c, apperrors.NewBadRequestError("amount is required"))
			return decimal.Zero, false
		}
		return decimal.Zero, true
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("amount must be a decimal number"))
		return decimal.Zero, false
	}
	return amount, true
}

func optionalAmountField(c *gin.Context) (decimal.Decimal, bool, bool) {
	raw := c.PostForm("amount")
	if raw == "" {
		return decimal.Zero, false, true
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("amount must be a decimal number"))
		return decimal.Zero, false, false
	}
	return amount, true, true
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func dateField(c *gin.Context, required bool) (time.Time, bool) {
	raw := c.PostForm("date")
	if raw == "" {
		if required {
			apperrors.HandleError(c, apperrors.NewBadRequestError("date is required"))
			return time.Time{}, false
		}
		return time.Time{}, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	apperrors.HandleError(c, apperrors.NewBadRequestError("date must be RFC3339 or YYYY-MM-DD"))
	return time.Time{}, false
}

func optionalDateField(c *gin.Context) (time.Time, bool, bool) {
	raw := c.PostForm("date")
	if raw == "" {
		return time.Time{}, false, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true, true
		}
	}
	apperrors.HandleError(c, apperrors.NewBadRequestError("date must be RFC3339 or YYYY-MM-DD"))
	return time.Time{}, false, false
}

func optionalUintField(c *gin.Context, name string) *uint {
	raw := c.PostForm(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}
