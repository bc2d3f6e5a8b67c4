// Package web serves the server-rendered storefront on top of the catalog
// service. It is intentionally small: a listing page with category and
// search filters, and a product detail page.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront/catalog/internal/domain"
	"github.com/shopfront/catalog/internal/query"
	"github.com/shopfront/catalog/internal/service"
	apperrors "github.com/shopfront/catalog/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the storefront pages.
type Server struct {
	service  *service.CatalogService
	logger   *slog.Logger
	listTmpl *template.Template
	itemTmpl *template.Template
}

var funcs = template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}

// NewServer parses the embedded templates. Parse failures are a programming
// error and surface at startup, not per request.
func NewServer(svc *service.CatalogService, logger *slog.Logger) (*Server, error) {
	listTmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/list.html")
	if err != nil {
		return nil, fmt.Errorf("parse list template: %w", err)
	}
	itemTmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/detail.html")
	if err != nil {
		return nil, fmt.Errorf("parse detail template: %w", err)
	}
	return &Server{
		service:  svc,
		logger:   logger,
		listTmpl: listTmpl,
		itemTmpl: itemTmpl,
	}, nil
}

// Routes returns the storefront route tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.listPage)
	r.Get("/products/{id}", s.detailPage)
	return r
}

type listPageData struct {
	Products   []domain.Product
	Categories []string
	Category   string
	Search     string
	Page       int
	TotalPages int
	PrevPage   int
	NextPage   int
}

func (s *Server) listPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := query.Options{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
	}

	result, err := s.service.ListProducts(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	data := listPageData{
		Products:   result.Items,
		Categories: stats.CategoryNames,
		Category:   opts.Category,
		Search:     opts.Search,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		PrevPage:   result.Page - 1,
		NextPage:   result.Page + 1,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.listTmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "render list page", slog.String("error", err.Error()))
	}
}

func (s *Server) detailPage(w http.ResponseWriter, r *http.Request) {
	product, err := s.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.itemTmpl.ExecuteTemplate(w, "base.html", product); err != nil {
		s.logger.ErrorContext(r.Context(), "render detail page", slog.String("error", err.Error()))
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "storefront error",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		http.Error(w, "something went wrong", status)
		return
	}
	http.Error(w, http.StatusText(status), status)
}
