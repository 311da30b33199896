package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/pivolan/case_dashboard/ai"
	"github.com/pivolan/case_dashboard/analytics"
	"github.com/pivolan/case_dashboard/config"
	"github.com/pivolan/case_dashboard/dataset"
	"github.com/pivolan/case_dashboard/domain/models"
	"github.com/pivolan/case_dashboard/logging"
	"github.com/pivolan/case_dashboard/plot"
	"github.com/pivolan/case_dashboard/transform"
	"github.com/pivolan/case_dashboard/view"
)

// Server serves the dashboard API.
type Server struct {
	cfg       *config.Config
	registry  *dataset.Registry
	sessions  *view.Sessions
	completer ai.Completer
	validate  *validator.Validate

	mu        sync.Mutex
	summaries map[string]cachedSummary
}

type cachedSummary struct {
	generation uint64
	summary    *models.CaseSummary
	durations  []float64
	columns    []models.ColumnProfile
}

// NewServer wires the handlers. completer may be nil, the AI route then answers 503.
func NewServer(cfg *config.Config, registry *dataset.Registry, completer ai.Completer) *Server {
	s := &Server{
		cfg:       cfg,
		registry:  registry,
		sessions:  view.NewSessions(cfg.PageSize),
		completer: completer,
		validate:  validator.New(),
		summaries: make(map[string]cachedSummary),
	}
	registry.Subscribe(s.sessions.Replaced)
	registry.Subscribe(s.forgetSummary)
	return s
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware(s.cfg.AllowedOrigin))

	r.Post("/api/ai", s.handleAI)

	r.Route("/api/datasets", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", s.listDatasets)
		r.Route("/{slot}", func(r chi.Router) {
			r.Use(sessionMiddleware)
			r.Get("/", s.getDataset)
			r.Post("/reload", s.reloadDataset)
			r.Get("/rows", s.getRows)
			r.Post("/page", s.setPage)
			r.Post("/selection/toggle", s.toggleRow)
			r.Post("/selection/page", s.selectPage)
			r.Get("/selection/export", s.exportSelection)
			r.Get("/analytics", s.getAnalytics)
			r.Get("/columns", s.getColumns)
			r.Get("/charts", s.listCharts)
			r.Get("/charts/{chart}", s.getChart)
		})
	})
	r.Get("/datasets/{slot}/dashboard", s.getDashboard)

	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// renderDatasetError maps registry errors to HTTP statuses.
func renderDatasetError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dataset.ErrUnknownSlot):
		renderError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, dataset.ErrNotLoaded):
		renderError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		renderError(w, r, http.StatusGatewayTimeout, err.Error())
	default:
		logging.Errorf("Dataset request failed: %v", err)
		renderError(w, r, http.StatusInternalServerError, err.Error())
	}
}

type datasetInfo struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Path        string              `json:"path"`
	Description string              `json:"description,omitempty"`
	Analytics   bool                `json:"analytics"`
	State       models.DatasetState `json:"state"`
	Error       string              `json:"error,omitempty"`
	Headers     []string            `json:"headers"`
	Total       int                 `json:"total"`
	Transformed bool                `json:"transformed"`
	LoadedAt    *time.Time          `json:"loadedAt,omitempty"`
}

func (s *Server) info(ds *models.Dataset) datasetInfo {
	cfg, _ := s.registry.Config(ds.ID)
	info := datasetInfo{
		ID:          ds.ID,
		Name:        ds.Name,
		Path:        ds.Locator,
		Description: ds.Description,
		Analytics:   cfg.Analytics,
		State:       ds.State,
		Error:       ds.Error,
		Headers:     ds.Headers,
		Total:       len(ds.Records),
		Transformed: ds.Transformed,
	}
	if !ds.LoadedAt.IsZero() {
		loaded := ds.LoadedAt
		info.LoadedAt = &loaded
	}
	return info
}

func (s *Server) listDatasets(w http.ResponseWriter, r *http.Request) {
	list := s.registry.List()
	out := make([]datasetInfo, 0, len(list))
	for _, ds := range list {
		out = append(out, s.info(ds))
	}
	render.JSON(w, r, out)
}

func (s *Server) loadCtx(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.FetchTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.cfg.FetchTimeout)
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.loadCtx(r)
	defer cancel()
	ds, err := s.registry.Load(ctx, chi.URLParam(r, "slot"), false)
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}
	render.JSON(w, r, s.info(ds))
}

func (s *Server) reloadDataset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.loadCtx(r)
	defer cancel()
	ds, err := s.registry.Load(ctx, chi.URLParam(r, "slot"), true)
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}
	render.JSON(w, r, s.info(ds))
}

type rowView struct {
	Index    int           `json:"index"`
	Number   int           `json:"number"`
	Selected bool          `json:"selected"`
	Values   models.Record `json:"values"`

	// Set for transformed datasets only.
	Duration       string `json:"duration,omitempty"`
	StatusTone     string `json:"statusTone,omitempty"`
	EfficiencyTone string `json:"efficiencyTone,omitempty"`
}

func newRowView(idx int, selected, transformed bool, rec models.Record) rowView {
	v := rowView{Index: idx, Number: idx + 1, Selected: selected, Values: rec}
	if !transformed {
		return v
	}
	v.Duration = transform.FormatDuration(rec[transform.FieldDuration])
	v.StatusTone = transform.StatusTone(rec[transform.FieldStatus])
	efficiency, _ := transform.ParseInt(rec[transform.FieldEfficiency])
	v.EfficiencyTone = transform.EfficiencyTone(efficiency)
	return v
}

type pageResponse struct {
	Dataset       string        `json:"dataset"`
	Headers       []string      `json:"headers"`
	Page          int           `json:"page"`
	PageSize      int           `json:"pageSize"`
	TotalPages    int           `json:"totalPages"`
	Total         int           `json:"total"`
	From          int           `json:"from"`
	To            int           `json:"to"`
	Rows          []rowView     `json:"rows"`
	Buttons       []view.Button `json:"buttons"`
	PageSelected  bool          `json:"pageSelected"`
	SelectedCount int           `json:"selectedCount"`
	Changed       bool          `json:"changed"`
}

func pageOf(p *view.Pager, changed bool) pageResponse {
	start, end := p.Bounds()
	rows := p.Rows()
	out := pageResponse{
		Dataset:       p.Dataset().ID,
		Headers:       p.Dataset().Headers,
		Page:          p.Page(),
		PageSize:      p.PageSize(),
		TotalPages:    p.TotalPages(),
		Total:         p.Total(),
		Rows:          make([]rowView, len(rows)),
		Buttons:       p.PageButtons(view.MaxPageButtons),
		PageSelected:  p.IsPageSelected(),
		SelectedCount: len(p.Selected()),
		Changed:       changed,
	}
	if end > start {
		out.From, out.To = start+1, end
	}
	for i, rec := range rows {
		idx := start + i
		out.Rows[i] = newRowView(idx, p.IsSelected(idx), p.Dataset().Transformed, rec)
	}
	return out
}

// withPager loads the slot and runs fn on the caller's pager.
func (s *Server) withPager(w http.ResponseWriter, r *http.Request, fn func(p *view.Pager) (changed bool)) {
	ctx, cancel := s.loadCtx(r)
	defer cancel()
	ds, err := s.registry.Ensure(ctx, chi.URLParam(r, "slot"))
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}
	var resp pageResponse
	err = s.sessions.With(sessionID(r.Context()), ds, func(p *view.Pager) error {
		changed := fn(p)
		resp = pageOf(p, changed)
		return nil
	})
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	render.JSON(w, r, resp)
}

func (s *Server) getRows(w http.ResponseWriter, r *http.Request) {
	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "page must be a number")
			return
		}
		page = n
	}
	s.withPager(w, r, func(p *view.Pager) bool {
		if page == 0 {
			return false
		}
		return p.SetPage(page)
	})
}

type pageRequest struct {
	Page *int `json:"page" validate:"required"`
}

type toggleRequest struct {
	Index *int `json:"index" validate:"required"`
}

type selectPageRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func (s *Server) setPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := s.decode(r, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.withPager(w, r, func(p *view.Pager) bool {
		return p.SetPage(*req.Page)
	})
}

func (s *Server) toggleRow(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := s.decode(r, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.withPager(w, r, func(p *view.Pager) bool {
		return p.Toggle(*req.Index)
	})
}

func (s *Server) selectPage(w http.ResponseWriter, r *http.Request) {
	var req selectPageRequest
	if err := s.decode(r, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.withPager(w, r, func(p *view.Pager) bool {
		p.SelectPage(*req.Selected)
		return true
	})
}

func (s *Server) exportSelection(w http.ResponseWriter, r *http.Request) {
	format, err := view.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	numbered := true
	if v := r.URL.Query().Get("numbered"); v != "" {
		numbered, err = strconv.ParseBool(v)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "numbered must be a boolean")
			return
		}
	}

	ctx, cancel := s.loadCtx(r)
	defer cancel()
	ds, err := s.registry.Ensure(ctx, chi.URLParam(r, "slot"))
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}

	var text string
	err = s.sessions.With(sessionID(r.Context()), ds, func(p *view.Pager) error {
		var err error
		text, err = p.Export(format, numbered)
		return err
	})
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if text == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	contentType := "text/tab-separated-values; charset=utf-8"
	if format == view.FormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", dataset.Slug(ds.Name+" selection")+"."+string(format)))
	w.Write([]byte(text))
}

// summary returns the case summary of a slot, memoised per dataset generation.
func (s *Server) summary(r *http.Request) (*models.Dataset, cachedSummary, error) {
	ctx, cancel := s.loadCtx(r)
	defer cancel()
	ds, err := s.registry.Ensure(ctx, chi.URLParam(r, "slot"))
	if err != nil {
		return nil, cachedSummary{}, err
	}

	s.mu.Lock()
	cached, ok := s.summaries[ds.ID]
	s.mu.Unlock()
	if ok && cached.generation == ds.Generation {
		return ds, cached, nil
	}

	cached = cachedSummary{
		generation: ds.Generation,
		summary:    analytics.Summarize(ds.Raw, analytics.DefaultFields),
		durations:  durationsOf(ds.Raw),
		columns:    analytics.Profile(ds.Headers, ds.Records),
	}
	s.mu.Lock()
	s.summaries[ds.ID] = cached
	s.mu.Unlock()
	return ds, cached, nil
}

func durationsOf(records []models.Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, v := range analytics.ColumnNumbers(records, analytics.DefaultFields.Duration) {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func (s *Server) forgetSummary(ds *models.Dataset) {
	s.mu.Lock()
	delete(s.summaries, ds.ID)
	s.mu.Unlock()
}

func (s *Server) getAnalytics(w http.ResponseWriter, r *http.Request) {
	_, cached, err := s.summary(r)
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}
	if cached.summary == nil {
		renderError(w, r, http.StatusConflict, "No data available for analysis")
		return
	}
	render.JSON(w, r, cached.summary)
}

func (s *Server) getColumns(w http.ResponseWriter, r *http.Request) {
	_, cached, err := s.summary(r)
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		render.JSON(w, r, cached.columns)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(analytics.RenderProfile(cached.columns, true)))
	default:
		renderError(w, r, http.StatusBadRequest, "format must be json or markdown")
	}
}

func (s *Server) listCharts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, plot.Charts())
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "chart"), ".png")
	ds, cached, err := s.summary(r)
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}
	img, err := plot.Render(name, cached.summary, cached.durations)
	switch {
	case errors.Is(err, plot.ErrUnknownChart):
		renderError(w, r, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, plot.ErrNoData):
		renderError(w, r, http.StatusConflict, "No data available for analysis")
		return
	case err != nil:
		logging.Errorf("Chart %s of %s failed: %v", name, ds.ID, err)
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", dataset.Slug(ds.Name+" "+name)+".png"))
	w.Write(img)
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	ds, cached, err := s.summary(r)
	if err != nil {
		renderDatasetError(w, r, err)
		return
	}
	if cached.summary == nil {
		renderError(w, r, http.StatusConflict, "No data available for analysis")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := plot.Dashboard(w, ds.Name, cached.summary); err != nil {
		logging.Errorf("Dashboard of %s failed: %v", ds.ID, err)
	}
}
