// Package api exposes the quoting service over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Angeloac12/siigo-cotizador/internal/catalog"
	"github.com/Angeloac12/siigo-cotizador/internal/drafts"
	"github.com/Angeloac12/siigo-cotizador/internal/importer"
	"github.com/Angeloac12/siigo-cotizador/internal/logger"
	"github.com/Angeloac12/siigo-cotizador/internal/metrics"
	"github.com/Angeloac12/siigo-cotizador/internal/parser"
	"github.com/Angeloac12/siigo-cotizador/internal/service"
	"github.com/Angeloac12/siigo-cotizador/internal/tenant"
)

// ErrorResponse is the shape of every error payload.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler holds HTTP request handlers.
type Handler struct {
	draftSvc *service.DraftService
	matchSvc *service.MatchService
	catalog  *catalog.Repository
	tenants  *tenant.Store
	parser   *parser.Parser
	metrics  *metrics.Metrics
	maxItems int
	logger   logger.Logger
}

// NewHandler creates a new handler instance.
func NewHandler(
	draftSvc *service.DraftService,
	matchSvc *service.MatchService,
	cat *catalog.Repository,
	tenants *tenant.Store,
	p *parser.Parser,
	m *metrics.Metrics,
	maxItems int,
	log logger.Logger,
) *Handler {
	if p == nil {
		p = parser.New(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		draftSvc: draftSvc,
		matchSvc: matchSvc,
		catalog:  cat,
		tenants:  tenants,
		parser:   p,
		metrics:  m,
		maxItems: maxItems,
		logger:   log,
	}
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ParseRequest is the body of a stateless parse call.
type ParseRequest struct {
	Text     string `json:"text" binding:"required"`
	MaxItems int    `json:"max_items"`
}

// Parse normalizes request lines without persisting anything.
func (h *Handler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	maxItems := req.MaxItems
	if maxItems <= 0 || maxItems > h.maxItems {
		maxItems = h.maxItems
	}

	result := h.parser.ParseBatch(req.Text, maxItems)
	c.JSON(http.StatusOK, result)
}

// CreateDraftRequest is the body of a draft creation call.
type CreateDraftRequest struct {
	Text     string `json:"text" binding:"required"`
	Provider string `json:"provider"`
}

// CreateDraft parses free text into a persisted draft.
func (h *Handler) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Provider == "" {
		req.Provider = "siigo"
	}

	draft, items, err := h.draftSvc.CreateFromText(
		c.Request.Context(), c.GetString(ContextOrgID), req.Provider, req.Text, h.maxItems,
	)
	if err != nil {
		h.internalError(c, "failed to create draft", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"draft": draft, "items": items})
}

// UploadDraft parses an uploaded spreadsheet into a persisted draft.
func (h *Handler) UploadDraft(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.badRequest(c, errors.New("file field is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	provider := c.PostForm("provider")
	if provider == "" {
		provider = "siigo"
	}

	table, err := importer.ReadTable(file, header.Filename)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			h.badRequest(c, err)
			return
		}
		h.internalError(c, "failed to read upload", err)
		return
	}

	draft, items, err := h.draftSvc.CreateFromTable(
		c.Request.Context(), c.GetString(ContextOrgID), provider, *table, header.Filename, h.maxItems,
	)
	if err != nil {
		h.internalError(c, "failed to create draft", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"draft": draft, "items": items})
}

// GetDraft returns a draft with its items.
func (h *Handler) GetDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, items, err := h.draftSvc.Get(c.Request.Context(), c.GetString(ContextOrgID), id)
	if err != nil {
		h.draftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft, "items": items})
}

// ParseDraft runs the parser over a draft's stored source text.
func (h *Handler) ParseDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	items, err := h.draftSvc.Reparse(c.Request.Context(), c.GetString(ContextOrgID), id, h.maxItems)
	if err != nil {
		h.draftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ReplaceItemsRequest is the body of an item edit call.
type ReplaceItemsRequest struct {
	Items []service.ItemEdit `json:"items" binding:"required,dive"`
}

// ReplaceItems swaps a draft's items for user-corrected ones.
func (h *Handler) ReplaceItems(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	var req ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	items, err := h.draftSvc.ReplaceItems(c.Request.Context(), c.GetString(ContextOrgID), id, req.Items)
	if err != nil {
		h.draftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// MatchDraft runs catalog matching over a draft's items.
func (h *Handler) MatchDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	apply := c.Query("apply") == "true"
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	results, err := h.matchSvc.MatchDraft(c.Request.Context(), c.GetString(ContextOrgID), id, limit, apply)
	if err != nil {
		h.draftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "applied": apply})
}

// CommitDraft freezes a draft.
func (h *Handler) CommitDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	if err := h.draftSvc.Commit(c.Request.Context(), c.GetString(ContextOrgID), id); err != nil {
		h.draftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "committed"})
}

// QuotePreview builds the dry-run quote for a draft.
func (h *Handler) QuotePreview(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	preview, err := h.draftSvc.QuotePreview(c.Request.Context(), c.GetString(ContextOrgID), id)
	if err != nil {
		h.draftError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// CatalogSearchRequest is the body of an ad-hoc catalog search.
type CatalogSearchRequest struct {
	Query    string `json:"query" binding:"required"`
	Provider string `json:"provider"`
	Limit    int    `json:"limit"`
}

// CatalogSearch runs extraction, enrichment, recall and rerank for one query.
func (h *Handler) CatalogSearch(c *gin.Context) {
	var req CatalogSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Provider == "" {
		req.Provider = "siigo"
	}

	scored, best, spec, err := h.matchSvc.Search(
		c.Request.Context(), c.GetString(ContextOrgID), req.Provider, req.Query, req.Limit,
	)
	if err != nil {
		h.internalError(c, "catalog search failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"spec": spec, "candidates": scored, "best": best})
}

// ImportCatalog ingests a provider price list.
func (h *Handler) ImportCatalog(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.badRequest(c, errors.New("file field is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	provider := c.PostForm("provider")
	if provider == "" {
		provider = "siigo"
	}

	table, err := importer.ReadTable(file, header.Filename)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	products, rowErrs, err := importer.ReadProducts(table)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	count, err := h.catalog.Upsert(c.Request.Context(), c.GetString(ContextOrgID), provider, products)
	if err != nil {
		h.internalError(c, "failed to import catalog", err)
		return
	}

	h.metrics.ObserveImport(count, len(rowErrs))
	h.logger.Info("catalog imported",
		logger.String("provider", provider),
		logger.Int("imported", count),
		logger.Int("rejected", len(rowErrs)))

	c.JSON(http.StatusOK, gin.H{"imported": count, "errors": rowErrs})
}

// SetTenantConfig stores a tenant's match-config override.
func (h *Handler) SetTenantConfig(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.badRequest(c, err)
		return
	}

	if err = h.tenants.SetOverride(c.Request.Context(), c.GetString(ContextOrgID), raw); err != nil {
		h.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}

// ClearTenantConfig reverts a tenant to the default matching config.
func (h *Handler) ClearTenantConfig(c *gin.Context) {
	if err := h.tenants.ClearOverride(c.Request.Context(), c.GetString(ContextOrgID)); err != nil {
		h.internalError(c, "failed to clear tenant config", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) draftID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.badRequest(c, errors.New("invalid draft id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) draftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, drafts.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:     "draft not found",
			Code:      "NOT_FOUND",
			Timestamp: time.Now(),
		})
	case errors.Is(err, drafts.ErrCommitted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:     "draft is committed",
			Code:      "DRAFT_COMMITTED",
			Timestamp: time.Now(),
		})
	case errors.Is(err, service.ErrAlreadyParsed):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:     "draft already has items",
			Code:      "ALREADY_PARSED",
			Timestamp: time.Now(),
		})
	default:
		h.internalError(c, "draft operation failed", err)
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     err.Error(),
		Code:      "INVALID_REQUEST",
		Timestamp: time.Now(),
	})
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		logger.Error(err),
		logger.String("path", c.Request.URL.Path),
		logger.String("correlation_id", c.GetString(ContextCorrelation)),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     msg,
		Code:      "INTERNAL_ERROR",
		Timestamp: time.Now(),
	})
}
