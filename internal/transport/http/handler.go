package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/D2D99/talent-by-design-sub001/internal/app"
	"github.com/D2D99/talent-by-design-sub001/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ErrorResponse is the JSON error body every handler returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuditRecorder records mutations for the admin activity panel. May be nil
// when no audit store is configured; recording is best-effort either way.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, questionID string, payload any) error
}

// Handler wires the dashboard use cases to the REST surface.
type Handler struct {
	auth     *app.AuthService
	filters  *app.FilterManager
	catalog  *app.Catalog
	editor   *app.Editor
	audit    AuditRecorder
	events   *EventsHub
	secret   []byte
	tokenTTL time.Duration
}

func NewHandler(auth *app.AuthService, filters *app.FilterManager, catalog *app.Catalog, editor *app.Editor, audit AuditRecorder, events *EventsHub, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{
		auth:     auth,
		filters:  filters,
		catalog:  catalog,
		editor:   editor,
		audit:    audit,
		events:   events,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register mounts all routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/ws", h.events.ServeWS)

	api := e.Group("/api")
	api.POST("/auth/login", h.Login)

	authed := api.Group("", RequireSession(h.secret, h.auth))
	authed.POST("/auth/logout", h.Logout)

	authed.GET("/filters", h.GetFilters)
	authed.PUT("/filters/role", h.SetRole)
	authed.PUT("/filters/domain", h.SetDomain)
	authed.POST("/filters/subdomains/toggle", h.ToggleSubdomain)
	authed.POST("/filters/types/toggle", h.ToggleType)
	authed.POST("/filters/scales/toggle", h.ToggleScale)
	authed.PUT("/filters/panel", h.SetPanelVisible)

	authed.GET("/questions", h.ListQuestions)
	authed.GET("/questions/grouped", h.ListGrouped)
	authed.POST("/questions/refresh", h.RefreshCatalog)
	authed.POST("/questions", h.CreateQuestions)
	authed.PUT("/questions/:id", h.UpdateQuestion)
	authed.DELETE("/questions/:id", h.DeleteQuestion)
	authed.POST("/questions/:id/move", h.MoveQuestion)

	authed.GET("/drafts/new", h.NewDrafts)
	authed.POST("/drafts/apply", h.ApplyDraftChange)
	authed.POST("/drafts/add", h.AddDraft)
	authed.POST("/drafts/remove", h.RemoveDraft)

	authed.GET("/overview", h.GetOverview)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string             `json:"token"`
	Role  domain.Stakeholder `json:"role"`
}

// Login proxies credentials upstream and returns a session token.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		}
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	token, err := SignToken(h.secret, session, h.tokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to sign token"})
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Role: session.Role})
}

// Logout drops the backing session, invalidating the token.
func (h *Handler) Logout(c echo.Context) error {
	session, _ := sessionFrom(c)
	if err := h.auth.Logout(c.Request().Context(), session.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

type filtersResponse struct {
	State               domain.FilterState `json:"state"`
	AvailableSubdomains []string           `json:"availableSubdomains"`
}

func (h *Handler) filtersJSON(c echo.Context, state domain.FilterState) error {
	return c.JSON(http.StatusOK, filtersResponse{
		State:               state,
		AvailableSubdomains: domain.AvailableSubdomains(state.Role, state.Domains),
	})
}

// GetFilters returns the profile's hydrated filter state and the derived
// sub-domain option set.
func (h *Handler) GetFilters(c echo.Context) error {
	session, _ := sessionFrom(c)
	state, err := h.filters.Load(c.Request().Context(), session.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return h.filtersJSON(c, state)
}

func (h *Handler) SetRole(c echo.Context) error {
	session, _ := sessionFrom(c)
	var req struct {
		Role domain.Stakeholder `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if req.Role != "" && !domain.ValidStakeholder(req.Role) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown role"})
	}
	state, err := h.filters.SetRole(c.Request().Context(), session.Email, req.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return h.filtersJSON(c, state)
}

func (h *Handler) SetDomain(c echo.Context) error {
	session, _ := sessionFrom(c)
	var req struct {
		Domain domain.CompetencyDomain `json:"domain"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if !domain.ValidDomain(req.Domain) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown domain"})
	}
	state, err := h.filters.SetDomain(c.Request().Context(), session.Email, req.Domain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return h.filtersJSON(c, state)
}

func (h *Handler) ToggleSubdomain(c echo.Context) error {
	session, _ := sessionFrom(c)
	var req struct {
		Subdomain string `json:"subdomain"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	state, err := h.filters.ToggleSubdomain(c.Request().Context(), session.Email, req.Subdomain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return h.filtersJSON(c, state)
}

func (h *Handler) ToggleType(c echo.Context) error {
	session, _ := sessionFrom(c)
	var req struct {
		Type domain.QuestionType `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	state, err := h.filters.ToggleType(c.Request().Context(), session.Email, req.Type)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return h.filtersJSON(c, state)
}

func (h *Handler) ToggleScale(c echo.Context) error {
	session, _ := sessionFrom(c)
	var req struct {
		Scale domain.Scale `json:"scale"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	state, err := h.filters.ToggleScale(c.Request().Context(), session.Email, req.Scale)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return h.filtersJSON(c, state)
}

func (h *Handler) SetPanelVisible(c echo.Context) error {
	session, _ := sessionFrom(c)
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	state, err := h.filters.SetPanelVisible(c.Request().Context(), session.Email, req.Visible)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return h.filtersJSON(c, state)
}

// ListQuestions returns the catalog filtered by the profile's selections.
func (h *Handler) ListQuestions(c echo.Context) error {
	session, _ := sessionFrom(c)
	state, err := h.filters.Load(c.Request().Context(), session.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	questions := h.catalog.Filtered(state)
	if questions == nil {
		questions = []domain.Question{}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": questions})
}

// ListGrouped returns the filtered catalog bucketed by sub-domain.
func (h *Handler) ListGrouped(c echo.Context) error {
	session, _ := sessionFrom(c)
	state, err := h.filters.Load(c.Request().Context(), session.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": h.catalog.Grouped(state)})
}

// RefreshCatalog refetches the question set. A fetch failure is reported but
// leaves the previous list usable.
func (h *Handler) RefreshCatalog(c echo.Context) error {
	if err := h.catalog.Refresh(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

type createRequest struct {
	Drafts []domain.Draft `json:"drafts"`
}

// CreateQuestions submits the add-form drafts as one batch.
func (h *Handler) CreateQuestions(c echo.Context) error {
	session, _ := sessionFrom(c)
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := h.editor.SubmitCreate(c.Request().Context(), req.Drafts); err != nil {
		if errors.Is(err, domain.ErrEmptyDraftList) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		// The server's message goes back verbatim so the editor can show it
		// and keep the drafts for a retry.
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	h.record(c, session.Email, "create", "", req.Drafts)
	return c.NoContent(http.StatusCreated)
}

// UpdateQuestion submits the mutable field subset for one question.
func (h *Handler) UpdateQuestion(c echo.Context) error {
	session, _ := sessionFrom(c)
	id := c.Param("id")
	var draft domain.Draft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := h.editor.SubmitUpdate(c.Request().Context(), id, draft); err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	h.record(c, session.Email, "update", id, draft.UpdatePayload())
	return c.NoContent(http.StatusNoContent)
}

// DeleteQuestion confirms a delete: the two-step confirmation lives in the
// frontend, this endpoint is the confirmed action.
func (h *Handler) DeleteQuestion(c echo.Context) error {
	session, _ := sessionFrom(c)
	id := c.Param("id")
	if err := h.editor.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	h.record(c, session.Email, "delete", id, nil)
	return c.NoContent(http.StatusNoContent)
}

// MoveQuestion swaps a question with its neighbor inside its sub-domain
// group. Boundary moves are accepted and reported as unchanged.
func (h *Handler) MoveQuestion(c echo.Context) error {
	id := c.Param("id")
	var req struct {
		Direction app.MoveDirection `json:"direction"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if req.Direction != app.MoveUp && req.Direction != app.MoveDown {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "direction must be up or down"})
	}
	moved := h.catalog.Move(id, req.Direction)
	return c.JSON(http.StatusOK, map[string]bool{"moved": moved})
}

// NewDrafts returns the initial single-draft add form.
func (h *Handler) NewDrafts(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"drafts": []domain.Draft{app.NewDraft()}})
}

type draftChangeRequest struct {
	Drafts []domain.Draft `json:"drafts"`
	Index  int            `json:"index"`
	Field  string         `json:"field"`
	Value  string         `json:"value"`
}

type draftsResponse struct {
	Drafts []domain.Draft `json:"drafts"`
}

// ApplyDraftChange runs one reducer step over the add-form draft list.
func (h *Handler) ApplyDraftChange(c echo.Context) error {
	var req draftChangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	drafts, err := app.ApplyFieldChange(req.Drafts, req.Index, req.Field, req.Value)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, draftsResponse{Drafts: drafts})
}

// AddDraft appends an inheriting draft to the list.
func (h *Handler) AddDraft(c echo.Context) error {
	var req draftsResponse
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	return c.JSON(http.StatusOK, draftsResponse{Drafts: app.AddDraft(req.Drafts)})
}

type draftRemoveRequest struct {
	Drafts []domain.Draft `json:"drafts"`
	Index  int            `json:"index"`
}

// RemoveDraft drops one draft; the list never goes below one element.
func (h *Handler) RemoveDraft(c echo.Context) error {
	var req draftRemoveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	return c.JSON(http.StatusOK, draftsResponse{Drafts: app.RemoveDraft(req.Drafts, req.Index)})
}

// GetOverview returns chart aggregates for a role, or the whole bank when
// role is empty.
func (h *Handler) GetOverview(c echo.Context) error {
	role := domain.Stakeholder(c.QueryParam("role"))
	if role != "" && !domain.ValidStakeholder(role) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown role"})
	}
	return c.JSON(http.StatusOK, app.BuildOverview(h.catalog.All(), role))
}

func (h *Handler) record(c echo.Context, actor, action, questionID string, payload any) {
	if h.audit == nil {
		return
	}
	if err := h.audit.Record(c.Request().Context(), actor, action, questionID, payload); err != nil {
		log.Printf("audit record failed: %v", err)
	}
}
