package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/D2D99/talent-by-design-sub001/internal/app"
	"github.com/D2D99/talent-by-design-sub001/internal/domain"
	"github.com/D2D99/talent-by-design-sub001/internal/infra/memory"
	"github.com/labstack/echo/v4"
)

// stubClient fakes the remote question and auth API.
type stubClient struct {
	questions []domain.Question
	loginRole domain.Stakeholder
	loginErr  error
	createErr error
	deleted   []string
}

func (s *stubClient) ListAll(context.Context, app.ListFilters) ([]domain.Question, error) {
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *stubClient) GetByID(_ context.Context, id string) (domain.Question, error) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *stubClient) CreateBatch(_ context.Context, drafts []domain.Draft) ([]domain.Question, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return nil, nil
}

func (s *stubClient) Update(_ context.Context, id string, _ domain.UpdatePayload) (domain.Question, error) {
	return domain.Question{ID: id}, nil
}

func (s *stubClient) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubClient) Reorder(context.Context, []domain.ReorderEntry) error { return nil }

func (s *stubClient) Login(context.Context, string, string) (domain.Stakeholder, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return s.loginRole, nil
}

type recordedEvent struct {
	actor, action, questionID string
}

type stubAudit struct {
	events []recordedEvent
}

func (a *stubAudit) Record(_ context.Context, actor, action, questionID string, _ any) error {
	a.events = append(a.events, recordedEvent{actor, action, questionID})
	return nil
}

type testEnv struct {
	e      *echo.Echo
	client *stubClient
	audit  *stubAudit
	token  string
}

func newTestEnv(t *testing.T, client *stubClient) *testEnv {
	t.Helper()

	catalog := app.NewCatalog(client)
	if err := catalog.Refresh(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	events := NewEventsHub()
	editor := app.NewEditor(client, catalog, events)
	filters := app.NewFilterManager(memory.NewPrefsStore())
	auth := app.NewAuthService(client, memory.NewSessionStore(time.Minute))
	audit := &stubAudit{}

	handler := NewHandler(auth, filters, catalog, editor, audit, events, []byte("test-secret"), time.Minute)
	e := echo.New()
	handler.Register(e)

	env := &testEnv{e: e, client: client, audit: audit}
	env.token = env.login(t, "admin@example.com")
	return env
}

func (env *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"`+email+`","password":"pw"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func (env *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func stubQuestions() []domain.Question {
	return []domain.Question{
		{ID: "A", Stakeholder: domain.StakeholderManager, Domain: domain.DomainPeoplePotential, Subdomain: "Team Trust", Scale: domain.Scale1To5},
		{ID: "B", Stakeholder: domain.StakeholderManager, Domain: domain.DomainPeoplePotential, Subdomain: "Team Trust", Scale: domain.ScaleForced},
		{ID: "C", Stakeholder: domain.StakeholderEmployee, Domain: domain.DomainPeoplePotential, Subdomain: "Belonging", Scale: domain.Scale1To5},
	}
}

func TestRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	rec := env.do(t, http.MethodGet, "/api/questions", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/questions", "", "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})
	env.client.loginErr = domain.ErrInvalidCredentials

	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"x@y.z","password":"bad"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	rec := env.do(t, http.MethodPost, "/api/auth/logout", "", env.token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/questions", "", env.token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestFilterRoundTripNarrowsQuestionList(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	// Default filters: domain People Potential only, everything matches.
	rec := env.do(t, http.MethodGet, "/api/questions", "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	var list struct {
		Data []domain.Question `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Data) != 3 {
		t.Fatalf("expected 3 questions under default filters, got %d", len(list.Data))
	}

	rec = env.do(t, http.MethodPut, "/api/filters/role", `{"role":"manager"}`, env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("set role status %d: %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, "/api/filters/scales/toggle", `{"scale":"FORCED_CHOICE"}`, env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle scale status %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/questions", "", env.token)
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode narrowed list: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].ID != "B" {
		t.Fatalf("expected [B], got %+v", list.Data)
	}

	// Filter state is scoped to the logged-in profile and reported back with
	// its derived sub-domain options.
	rec = env.do(t, http.MethodGet, "/api/filters", "", env.token)
	var filters struct {
		State               domain.FilterState `json:"state"`
		AvailableSubdomains []string           `json:"availableSubdomains"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &filters); err != nil {
		t.Fatalf("decode filters: %v", err)
	}
	if filters.State.Role != domain.StakeholderManager {
		t.Fatalf("unexpected state %+v", filters.State)
	}
	if len(filters.AvailableSubdomains) == 0 {
		t.Fatalf("expected derived subdomain options")
	}
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})
	rec := env.do(t, http.MethodPut, "/api/filters/role", `{"role":"wizard"}`, env.token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateRecordsAudit(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	body := `{"drafts":[{"role":"manager","domain":"People Potential","subdomain":"Team Trust","questionType":"Self-Rating","questionCode":"TT-09","questionStem":"stem","scale":"SCALE_1_5"}]}`
	rec := env.do(t, http.MethodPost, "/api/questions", body, env.token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.audit.events) != 1 || env.audit.events[0].action != "create" {
		t.Fatalf("expected create audit event, got %+v", env.audit.events)
	}
	if env.audit.events[0].actor != "admin@example.com" {
		t.Fatalf("expected session email as actor, got %q", env.audit.events[0].actor)
	}
}

func TestCreateFailureSurfacesMessageAndStatus(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})
	env.client.createErr = errors.New("duplicate question code")

	body := `{"drafts":[{"scale":"SCALE_1_5"}]}`
	rec := env.do(t, http.MethodPost, "/api/questions", body, env.token)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "duplicate question code") {
		t.Fatalf("expected server message in body, got %s", rec.Body.String())
	}
	if len(env.audit.events) != 0 {
		t.Fatalf("failed create must not be audited")
	}
}

func TestCreateRejectsEmptyDraftList(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})
	rec := env.do(t, http.MethodPost, "/api/questions", `{"drafts":[]}`, env.token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteIsOptimistic(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	rec := env.do(t, http.MethodDelete, "/api/questions/A", "", env.token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", rec.Code)
	}
	if len(env.client.deleted) != 1 || env.client.deleted[0] != "A" {
		t.Fatalf("expected remote delete, got %v", env.client.deleted)
	}

	rec = env.do(t, http.MethodGet, "/api/questions", "", env.token)
	var list struct {
		Data []domain.Question `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, q := range list.Data {
		if q.ID == "A" {
			t.Fatalf("deleted question still listed")
		}
	}
}

func TestMoveEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	rec := env.do(t, http.MethodPost, "/api/questions/B/move", `{"direction":"up"}`, env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("move status %d", rec.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["moved"] {
		t.Fatalf("expected moved=true")
	}

	// B now heads the Team Trust group and cannot move further up.
	rec = env.do(t, http.MethodPost, "/api/questions/B/move", `{"direction":"up"}`, env.token)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["moved"] {
		t.Fatalf("expected boundary no-op")
	}

	rec = env.do(t, http.MethodPost, "/api/questions/B/move", `{"direction":"sideways"}`, env.token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad direction, got %d", rec.Code)
	}
}

func TestDraftReducerEndpoints(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	rec := env.do(t, http.MethodGet, "/api/drafts/new", "", env.token)
	var resp struct {
		Drafts []domain.Draft `json:"drafts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode new: %v", err)
	}
	if len(resp.Drafts) != 1 {
		t.Fatalf("expected one initial draft")
	}

	body, _ := json.Marshal(map[string]any{"drafts": resp.Drafts})
	rec = env.do(t, http.MethodPost, "/api/drafts/add", string(body), env.token)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode add: %v", err)
	}
	if len(resp.Drafts) != 2 {
		t.Fatalf("expected two drafts after add")
	}

	change, _ := json.Marshal(map[string]any{
		"drafts": resp.Drafts, "index": 0, "field": "role", "value": "leader",
	})
	rec = env.do(t, http.MethodPost, "/api/drafts/apply", string(change), env.token)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode apply: %v", err)
	}
	if resp.Drafts[1].Role != domain.StakeholderLeader {
		t.Fatalf("role broadcast not applied over the wire: %+v", resp.Drafts)
	}

	remove, _ := json.Marshal(map[string]any{"drafts": resp.Drafts[:1], "index": 0})
	rec = env.do(t, http.MethodPost, "/api/drafts/remove", string(remove), env.token)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode remove: %v", err)
	}
	if len(resp.Drafts) != 1 {
		t.Fatalf("single-draft list must survive removal")
	}
}

func TestOverviewEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubClient{loginRole: domain.StakeholderAdmin, questions: stubQuestions()})

	rec := env.do(t, http.MethodGet, "/api/overview?role=manager", "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview status %d", rec.Code)
	}
	var ov app.Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if ov.Total != 2 {
		t.Fatalf("expected 2 manager questions, got %d", ov.Total)
	}

	rec = env.do(t, http.MethodGet, "/api/overview?role=wizard", "", env.token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
}
