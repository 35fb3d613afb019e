package backend

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
	"github.com/jo-hoe/perfumecatalog/internal/common"
	"github.com/jo-hoe/perfumecatalog/internal/core"

	"github.com/labstack/echo/v4"
)

const genericErrorMessage = "Something went wrong. Please try again."

// APIService exposes the catalog as JSON under /api.
type APIService struct {
	coreService *core.CoreService
}

// PerfumeView is the JSON representation of a perfume.
type PerfumeView struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Brand           string    `json:"brand"`
	Description     string    `json:"description"`
	Price           string    `json:"price"`
	FormattedPrice  string    `json:"formatted_price"`
	Category        string    `json:"category"`
	SubCategory     *string   `json:"sub_category"`
	DisplayCategory string    `json:"display_category"`
	ImagePath       *string   `json:"image_path"`
	ImageURL        *string   `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type listFilters struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

type listResponse struct {
	Perfumes   *core.PagedResult[PerfumeView] `json:"perfumes"`
	Categories []string                       `json:"categories"`
	Filters    listFilters                    `json:"filters"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/probe", s.probeHandler)

	api := e.Group("/api")
	api.GET("/perfumes", s.listPerfumesHandler)
	api.POST("/perfumes", s.createPerfumeHandler, common.LimitBody(common.MaxBodySize, s.tooLargeHandler))
	api.GET("/perfumes/:id", s.getPerfumeHandler)
	api.PUT("/perfumes/:id", s.updatePerfumeHandler, common.LimitBody(common.MaxBodySize, s.tooLargeHandler))
	api.POST("/perfumes/:id", s.updatePerfumeHandler, common.LimitBody(common.MaxBodySize, s.tooLargeHandler))
	api.DELETE("/perfumes/:id", s.deletePerfumeHandler)
	api.GET("/categories", s.categoriesHandler)
	api.GET("/categories/suggestions", s.suggestionsHandler)
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if !s.coreService.IsHealthy(ctx.Request().Context()) {
		return ctx.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return ctx.String(http.StatusOK, "API Service is running")
}

func (s *APIService) listPerfumesHandler(ctx echo.Context) error {
	request := core.ListRequest{
		Search:   ctx.QueryParam("search"),
		Category: ctx.QueryParam("category"),
		Page:     common.PageParam(ctx),
	}

	result, err := s.coreService.ListPerfumes(ctx.Request().Context(), request)
	if err != nil {
		return s.errorResponse(ctx, "listPerfumesHandler", err)
	}
	categories, err := s.coreService.DistinctCategories(ctx.Request().Context())
	if err != nil {
		return s.errorResponse(ctx, "listPerfumesHandler", err)
	}

	views := make([]PerfumeView, 0, len(result.Data))
	for _, perfume := range result.Data {
		views = append(views, s.toView(perfume))
	}

	return ctx.JSON(http.StatusOK, listResponse{
		Perfumes: &core.PagedResult[PerfumeView]{
			Data:        views,
			CurrentPage: result.CurrentPage,
			LastPage:    result.LastPage,
			PerPage:     result.PerPage,
			Total:       result.Total,
		},
		Categories: categories,
		Filters:    listFilters{Search: request.Search, Category: request.Category},
	})
}

func (s *APIService) getPerfumeHandler(ctx echo.Context) error {
	id, err := common.BindID(ctx)
	if err != nil {
		return notFound(ctx)
	}

	perfume, err := s.coreService.GetPerfume(ctx.Request().Context(), id)
	if err != nil {
		return s.errorResponse(ctx, "getPerfumeHandler", err)
	}
	return ctx.JSON(http.StatusOK, s.toView(perfume))
}

func (s *APIService) createPerfumeHandler(ctx echo.Context) error {
	raw, file, err := common.ReadForm(ctx, core.PerfumeFieldNames, "image")
	if err != nil {
		return err
	}

	perfume, err := s.coreService.CreatePerfume(ctx.Request().Context(), raw, core.UploadFrom(file))
	if err != nil {
		return s.errorResponse(ctx, "createPerfumeHandler", err)
	}
	return ctx.JSON(http.StatusCreated, s.toView(perfume))
}

func (s *APIService) updatePerfumeHandler(ctx echo.Context) error {
	id, err := common.BindID(ctx)
	if err != nil {
		return notFound(ctx)
	}
	raw, file, err := common.ReadForm(ctx, core.PerfumeFieldNames, "image")
	if err != nil {
		return err
	}

	perfume, err := s.coreService.UpdatePerfume(ctx.Request().Context(), id, raw, core.UploadFrom(file))
	if err != nil {
		return s.errorResponse(ctx, "updatePerfumeHandler", err)
	}
	return ctx.JSON(http.StatusOK, s.toView(perfume))
}

func (s *APIService) deletePerfumeHandler(ctx echo.Context) error {
	id, err := common.BindID(ctx)
	if err != nil {
		return notFound(ctx)
	}

	if err := s.coreService.DeletePerfume(ctx.Request().Context(), id); err != nil {
		return s.errorResponse(ctx, "deletePerfumeHandler", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) tooLargeHandler(ctx echo.Context) error {
	return s.errorResponse(ctx, "tooLargeHandler", core.ImageTooLarge())
}

func (s *APIService) categoriesHandler(ctx echo.Context) error {
	categories, err := s.coreService.DistinctCategories(ctx.Request().Context())
	if err != nil {
		return s.errorResponse(ctx, "categoriesHandler", err)
	}
	return ctx.JSON(http.StatusOK, categories)
}

func (s *APIService) suggestionsHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, core.CategorySuggestions())
}

func (s *APIService) toView(perfume *database.Perfume) PerfumeView {
	view := PerfumeView{
		ID:              perfume.ID,
		Name:            perfume.Name,
		Brand:           perfume.Brand,
		Description:     perfume.Description,
		Price:           perfume.Price.StringFixed(2),
		FormattedPrice:  perfume.FormattedPrice(),
		Category:        perfume.Category,
		SubCategory:     perfume.SubCategory,
		DisplayCategory: perfume.DisplayCategory(),
		ImagePath:       perfume.ImagePath,
		CreatedAt:       perfume.CreatedAt,
		UpdatedAt:       perfume.UpdatedAt,
	}
	if url := s.coreService.ImageURL(perfume); url != "" {
		view.ImageURL = &url
	}
	return view
}

// errorResponse maps core errors onto status codes. Storage details are logged, never returned.
func (s *APIService) errorResponse(ctx echo.Context, handler string, err error) error {
	var validationError *core.ValidationError
	switch {
	case errors.As(err, &validationError):
		return ctx.JSON(http.StatusUnprocessableEntity, errorResponse{
			Message: "The given data was invalid.",
			Errors:  validationError.Fields,
		})
	case core.IsNotFound(err):
		return notFound(ctx)
	default:
		slog.Error(handler+": request failed",
			"status", http.StatusInternalServerError, "path", ctx.Path(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Message: genericErrorMessage})
	}
}

func notFound(ctx echo.Context) error {
	return ctx.JSON(http.StatusNotFound, errorResponse{Message: "Perfume not found."})
}
