package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "carteira/internal/errors"
	"carteira/internal/importer"
	"carteira/internal/ledger"
	"carteira/internal/services"
)

// maxImportSize bounds the body of an import request.
const maxImportSize = 10 << 20

// LedgerHandler handles requests for the expense and income collections.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
	now           func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, auditService: auditService, now: time.Now}
}

// MonthResponse is a collection's entries and totals for one month.
type MonthResponse struct {
	Period  string         `json:"period" example:"2024-03"`
	Kind    ledger.Kind    `json:"kind" example:"expenses"`
	Entries []ledger.Entry `json:"entries"`
	Totals  ledger.Totals  `json:"totals"`
}

func toMonthResponse(v ledger.View) MonthResponse {
	entries := v.Entries
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return MonthResponse{Period: v.Period.String(), Kind: v.Kind, Entries: entries, Totals: v.Totals}
}

// CreateEntryRequest represents the new entry form. The date is read from
// dueDate for expenses and receivedDate for incomes; date is accepted for
// both.
type CreateEntryRequest struct {
	Amount       AmountText `json:"amount" binding:"required" swaggertype:"string" example:"1.234,56"`
	Description  string     `json:"description" binding:"required,max=255"`
	DueDate      string     `json:"dueDate" binding:"omitempty,iso_date" example:"2024-03-10"`
	ReceivedDate string     `json:"receivedDate" binding:"omitempty,iso_date"`
	Date         string     `json:"date" binding:"omitempty,iso_date"`
	RepeatOption string     `json:"repeatOption" binding:"omitempty,repeat_option" example:"Não repetir"`
	Type         string     `json:"type" binding:"omitempty,entry_type" example:"DESPESA"`
}

func (r CreateEntryRequest) draft(kind ledger.Kind) ledger.Draft {
	date := r.Date
	switch {
	case kind == ledger.KindExpenses && r.DueDate != "":
		date = r.DueDate
	case kind == ledger.KindIncomes && r.ReceivedDate != "":
		date = r.ReceivedDate
	}
	return ledger.Draft{
		Amount:       string(r.Amount),
		Description:  r.Description,
		Date:         date,
		RepeatOption: ledger.RepeatOption(r.RepeatOption),
		Type:         ledger.EntryType(r.Type),
	}
}

// UpdateEntryRequest represents the edit form. Omitted fields keep their
// value.
type UpdateEntryRequest struct {
	Amount      *AmountText `json:"amount" swaggertype:"string"`
	Description *string     `json:"description" binding:"omitempty,max=255"`
}

// UpdateStatusRequest represents a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,entry_status" example:"PAGA"`
}

// ExportResponse reports a month export.
type ExportResponse struct {
	Period string `json:"period"`
	Rows   int    `json:"rows"`
}

// GetMonth returns a collection's entries and totals for one month
// @Summary     Get a month of entries
// @Description Get the entries of a collection dated within a month, with totals
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       kind  path  string true  "Collection" Enums(expenses, incomes)
// @Param       month query int    false "Month (1-12), defaults to the current month"
// @Param       year  query int    false "Year, defaults to the current year"
// @Success     200 {object} MonthResponse "Month view"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Store failure"
// @Router      /ledger/{kind} [get]
func (h *LedgerHandler) GetMonth(c *gin.Context) {
	kind, period, err := h.kindAndPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.ledgerService.MonthView(c.Request.Context(), kind, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMonthResponse(view))
}

// StreamMonth pushes a fresh month view after every change
// @Summary     Stream a month of entries
// @Description Server-Sent Events stream with one "view" event per collection snapshot. Read failures are sent as "error" events and the stream continues.
// @Tags        ledger
// @Produce     text/event-stream
// @Security    BearerAuth
// @Param       kind  path  string true  "Collection" Enums(expenses, incomes)
// @Param       month query int    false "Month (1-12), defaults to the current month"
// @Param       year  query int    false "Year, defaults to the current year"
// @Success     200 {object} MonthResponse "view events"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /ledger/{kind}/stream [get]
func (h *LedgerHandler) StreamMonth(c *gin.Context) {
	kind, period, err := h.kindAndPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	err = h.ledgerService.WatchMonth(c.Request.Context(), kind, period, func(view ledger.View, err error) error {
		if err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				appErr = apperrors.Wrap(apperrors.ErrRemote, err)
			}
			c.SSEvent("error", errorBody(appErr))
		} else {
			c.SSEvent("view", toMonthResponse(view))
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !c.Writer.Written() {
		respondWithError(c, err)
	}
}

// GetEntry returns one entry
// @Summary     Get an entry
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "Collection" Enums(expenses, incomes)
// @Param       id   path string true "Entry ID"
// @Success     200 {object} map[string]interface{} "Entry"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /ledger/{kind}/{id} [get]
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	kind, id, err := kindAndID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), kind, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// CreateEntry appends a pending entry
// @Summary     Create an entry
// @Description Create a pending entry. Amount accepts a number or text such as "R$ 1.234,56". The date defaults to today.
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string             true "Collection" Enums(expenses, incomes)
// @Param       request body CreateEntryRequest true "Entry data"
// @Success     201 {object} map[string]interface{} "Created entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Store failure"
// @Router      /ledger/{kind} [post]
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, err := parsePathKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), kind, req.draft(kind))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ENTRY", string(kind), entry.ID, c.ClientIP(),
		map[string]interface{}{
			"amount":      entry.Amount,
			"description": entry.Description,
			"date":        entry.Date,
		})

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// UpdateEntry edits the amount and/or description of an entry
// @Summary     Edit an entry
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string             true "Collection" Enums(expenses, incomes)
// @Param       id      path string             true "Entry ID"
// @Param       request body UpdateEntryRequest true "Fields to change"
// @Success     200 {object} map[string]interface{} "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Entry is being saved"
// @Router      /ledger/{kind}/{id} [patch]
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, id, err := kindAndID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Amount == nil && req.Description == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "nothing to update"))
		return
	}

	var edit services.EntryEdit
	if req.Amount != nil {
		amount := string(*req.Amount)
		edit.Amount = &amount
	}
	edit.Description = req.Description

	entry, err := h.ledgerService.EditEntry(c.Request.Context(), kind, id, edit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ENTRY", string(kind), id, c.ClientIP(),
		map[string]interface{}{
			"amount":      entry.Amount,
			"description": entry.Description,
		})

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateStatus changes the status of an entry
// @Summary     Change an entry's status
// @Description Expenses move between PENDENTE and PAGA/PAGO, incomes between PENDENTE and RECEBIDO.
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string              true "Collection" Enums(expenses, incomes)
// @Param       id      path string              true "Entry ID"
// @Param       request body UpdateStatusRequest true "New status"
// @Success     200 {object} map[string]interface{} "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Entry is being saved"
// @Router      /ledger/{kind}/{id}/status [put]
func (h *LedgerHandler) UpdateStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, id, err := kindAndID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.SetEntryStatus(c.Request.Context(), kind, id, ledger.Status(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ENTRY_STATUS", string(kind), id, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry removes an entry
// @Summary     Delete an entry
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "Collection" Enums(expenses, incomes)
// @Param       id   path string true "Entry ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Entry is being saved"
// @Router      /ledger/{kind}/{id} [delete]
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, id, err := kindAndID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), kind, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ENTRY", string(kind), id, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// ExportMonth appends a month view to the configured spreadsheet
// @Summary     Export a month to Google Sheets
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       kind  path  string true  "Collection" Enums(expenses, incomes)
// @Param       month query int    false "Month (1-12), defaults to the current month"
// @Param       year  query int    false "Year, defaults to the current year"
// @Success     200 {object} ExportResponse "Rows written"
// @Failure     501 {object} ErrorResponse "Export not configured"
// @Failure     502 {object} ErrorResponse "Spreadsheet failure"
// @Router      /ledger/{kind}/export [post]
func (h *LedgerHandler) ExportMonth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind, period, err := h.kindAndPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.ledgerService.ExportMonth(c.Request.Context(), kind, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "EXPORT_MONTH", string(kind), period.String(), c.ClientIP(),
		map[string]interface{}{"rows": rows})

	c.JSON(http.StatusOK, ExportResponse{Period: period.String(), Rows: rows})
}

// Import loads a realtime-database export into the user's collections
// @Summary     Import a realtime-database export
// @Description The body is the user's subtree {"expenses": {...}, "incomes": {...}}, or a full export when firebase_uid is given. Undecodable records are skipped and reported.
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       firebase_uid query string false "User key inside a full export"
// @Success     200 {object} importer.Result "Import summary"
// @Failure     400 {object} ErrorResponse "Invalid export"
// @Failure     502 {object} ErrorResponse "Store failure"
// @Router      /import [post]
func (h *LedgerHandler) Import(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	data, err := c.GetRawData()
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "could not read export body"))
		return
	}

	tree, err := importer.ParseTree(data, c.Query("firebase_uid"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	res, err := h.ledgerService.Import(c.Request.Context(), tree)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "IMPORT", "ledger", "", c.ClientIP(),
		map[string]interface{}{
			"expenses": res.Created[ledger.KindExpenses],
			"incomes":  res.Created[ledger.KindIncomes],
			"skipped":  len(res.Skipped),
		})

	c.JSON(http.StatusOK, res)
}

func (h *LedgerHandler) kindAndPeriod(c *gin.Context) (ledger.Kind, ledger.Period, error) {
	kind, err := parsePathKind(c)
	if err != nil {
		return "", ledger.Period{}, err
	}
	period, err := parsePeriod(c, h.now())
	if err != nil {
		return "", ledger.Period{}, err
	}
	return kind, period, nil
}

func kindAndID(c *gin.Context) (ledger.Kind, string, error) {
	kind, err := parsePathKind(c)
	if err != nil {
		return "", "", err
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		return "", "", err
	}
	return kind, id, nil
}
