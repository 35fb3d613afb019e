package frontend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
	"github.com/jo-hoe/perfumecatalog/internal/common"
	"github.com/jo-hoe/perfumecatalog/internal/core"
	"github.com/jo-hoe/perfumecatalog/internal/frontend/flash"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	mimePNG = "image/png"

	indexPageName  = "index.html"
	showPageName   = "show.html"
	createPageName = "create.html"
	editPageName   = "edit.html"
	deletePageName = "delete.html"
	errorPageName  = "error.html"

	flashCreated = "Perfume added successfully to the catalog."
	flashUpdated = "Perfume updated successfully."
	flashDeleted = "Perfume removed from catalog."
)

type FrontendService struct {
	coreService *core.CoreService
	flasher     *flash.Flasher
	renderer    *Template
}

type pageData struct {
	Title string
	Flash string
}

// perfumeView adds the URLs a page needs to a perfume.
type perfumeView struct {
	*database.Perfume
	ImageURL     string
	ThumbnailURL string
}

type indexPage struct {
	pageData
	Perfumes   *core.PagedResult[perfumeView]
	Categories []string
	Search     string
	Category   string
}

type detailPage struct {
	pageData
	Perfume perfumeView
}

type formPage struct {
	pageData
	Perfume     *perfumeView
	Action      string
	SubmitLabel string
	CancelURL   string
	Values      map[string]string
	Errors      map[string]string
	Suggestions []core.CategorySuggestion
}

type errorPage struct {
	pageData
	Message string
}

func NewFrontendService(coreService *core.CoreService, flashStore flash.Store) (*FrontendService, error) {
	renderer, err := newTemplate()
	if err != nil {
		return nil, err
	}
	return &FrontendService{
		coreService: coreService,
		flasher:     flash.NewFlasher(flashStore),
		renderer:    renderer,
	}, nil
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = service.renderer

	e.GET("/", service.indexHandler)
	e.GET("/perfumes", service.rootRedirectHandler)
	e.GET("/perfumes/create", service.createFormHandler)
	e.POST("/perfumes", service.createHandler, common.LimitBody(common.MaxBodySize, service.createTooLargeHandler))
	e.GET("/perfumes/:id", service.showHandler)
	e.GET("/perfumes/:id/edit", service.editFormHandler)
	e.POST("/perfumes/:id", service.updateHandler, common.LimitBody(common.MaxBodySize, service.updateTooLargeHandler))
	e.GET("/perfumes/:id/delete", service.deleteConfirmHandler)
	e.POST("/perfumes/:id/delete", service.deleteHandler, middleware.BodyLimit(common.MaxBodySize))
	e.GET("/perfumes/:id/thumbnail", service.thumbnailHandler)

	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	target := "/"
	if query := ctx.QueryString(); query != "" {
		target += "?" + query
	}
	return ctx.Redirect(http.StatusMovedPermanently, target)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	request := core.ListRequest{
		Search:   strings.TrimSpace(ctx.QueryParam("search")),
		Category: strings.TrimSpace(ctx.QueryParam("category")),
		Page:     common.PageParam(ctx),
	}

	result, err := service.coreService.ListPerfumes(ctx.Request().Context(), request)
	if err != nil {
		return service.renderFailure(ctx, "indexHandler", err)
	}
	categories, err := service.coreService.DistinctCategories(ctx.Request().Context())
	if err != nil {
		return service.renderFailure(ctx, "indexHandler", err)
	}

	views := make([]perfumeView, 0, len(result.Data))
	for _, perfume := range result.Data {
		views = append(views, service.toView(perfume))
	}

	return ctx.Render(http.StatusOK, indexPageName, indexPage{
		pageData: service.page(ctx, "Discover Your Perfect Scent"),
		Perfumes: &core.PagedResult[perfumeView]{
			Data:        views,
			CurrentPage: result.CurrentPage,
			LastPage:    result.LastPage,
			PerPage:     result.PerPage,
			Total:       result.Total,
		},
		Categories: categories,
		Search:     request.Search,
		Category:   request.Category,
	})
}

func (service *FrontendService) showHandler(ctx echo.Context) error {
	perfume, err := service.lookup(ctx)
	if err != nil {
		return service.renderFailure(ctx, "showHandler", err)
	}
	return ctx.Render(http.StatusOK, showPageName, detailPage{
		pageData: service.page(ctx, perfume.Name),
		Perfume:  service.toView(perfume),
	})
}

func (service *FrontendService) createFormHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, createPageName, service.createForm(ctx, nil, nil))
}

func (service *FrontendService) createHandler(ctx echo.Context) error {
	raw, file, err := common.ReadForm(ctx, core.PerfumeFieldNames, "image")
	if err != nil {
		return err
	}

	perfume, err := service.coreService.CreatePerfume(ctx.Request().Context(), raw, core.UploadFrom(file))
	var validationError *core.ValidationError
	if errors.As(err, &validationError) {
		return ctx.Render(http.StatusUnprocessableEntity, createPageName, service.createForm(ctx, raw, validationError.Fields))
	}
	if err != nil {
		return service.renderFailure(ctx, "createHandler", err)
	}

	service.flasher.Set(ctx, flashCreated)
	return ctx.Redirect(http.StatusSeeOther, perfumeURL(perfume.ID))
}

// createTooLargeHandler answers an oversized upload; the rejected body cannot be echoed back.
func (service *FrontendService) createTooLargeHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusUnprocessableEntity, createPageName,
		service.createForm(ctx, nil, core.ImageTooLarge().Fields))
}

func (service *FrontendService) editFormHandler(ctx echo.Context) error {
	perfume, err := service.lookup(ctx)
	if err != nil {
		return service.renderFailure(ctx, "editFormHandler", err)
	}
	return ctx.Render(http.StatusOK, editPageName, service.editForm(ctx, perfume, valuesOf(perfume), nil))
}

func (service *FrontendService) updateHandler(ctx echo.Context) error {
	perfume, err := service.lookup(ctx)
	if err != nil {
		return service.renderFailure(ctx, "updateHandler", err)
	}
	raw, file, err := common.ReadForm(ctx, core.PerfumeFieldNames, "image")
	if err != nil {
		return err
	}

	updated, err := service.coreService.UpdatePerfume(ctx.Request().Context(), perfume.ID, raw, core.UploadFrom(file))
	var validationError *core.ValidationError
	if errors.As(err, &validationError) {
		return ctx.Render(http.StatusUnprocessableEntity, editPageName, service.editForm(ctx, perfume, raw, validationError.Fields))
	}
	if err != nil {
		return service.renderFailure(ctx, "updateHandler", err)
	}

	service.flasher.Set(ctx, flashUpdated)
	return ctx.Redirect(http.StatusSeeOther, perfumeURL(updated.ID))
}

func (service *FrontendService) updateTooLargeHandler(ctx echo.Context) error {
	perfume, err := service.lookup(ctx)
	if err != nil {
		return service.renderFailure(ctx, "updateTooLargeHandler", err)
	}
	return ctx.Render(http.StatusUnprocessableEntity, editPageName,
		service.editForm(ctx, perfume, valuesOf(perfume), core.ImageTooLarge().Fields))
}

func (service *FrontendService) deleteConfirmHandler(ctx echo.Context) error {
	perfume, err := service.lookup(ctx)
	if err != nil {
		return service.renderFailure(ctx, "deleteConfirmHandler", err)
	}
	return ctx.Render(http.StatusOK, deletePageName, detailPage{
		pageData: service.page(ctx, "Delete "+perfume.Name),
		Perfume:  service.toView(perfume),
	})
}

func (service *FrontendService) deleteHandler(ctx echo.Context) error {
	id, err := common.BindID(ctx)
	if err != nil {
		return service.renderFailure(ctx, "deleteHandler", core.ErrNotFound)
	}
	if err := service.coreService.DeletePerfume(ctx.Request().Context(), id); err != nil {
		return service.renderFailure(ctx, "deleteHandler", err)
	}

	service.flasher.Set(ctx, flashDeleted)
	return ctx.Redirect(http.StatusSeeOther, "/")
}

func (service *FrontendService) thumbnailHandler(ctx echo.Context) error {
	id, err := common.BindID(ctx)
	if err != nil {
		return ctx.String(http.StatusNotFound, "Thumbnail not available")
	}

	thumbnail, err := service.coreService.Thumbnail(ctx.Request().Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsNotFound(err) {
			status = http.StatusNotFound
		}
		slog.Warn("thumbnailHandler: thumbnail not available",
			"status", status, "perfume_id", id, "error", err)
		return ctx.String(status, "Thumbnail not available")
	}

	// Thumbnails change whenever the image is replaced.
	service.setNoCache(ctx)

	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := viewsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}

// lookup resolves the :id parameter; malformed ids are reported as not found.
func (service *FrontendService) lookup(ctx echo.Context) (*database.Perfume, error) {
	id, err := common.BindID(ctx)
	if err != nil {
		return nil, core.ErrNotFound
	}
	return service.coreService.GetPerfume(ctx.Request().Context(), id)
}

func (service *FrontendService) renderFailure(ctx echo.Context, handler string, err error) error {
	if core.IsNotFound(err) {
		return ctx.Render(http.StatusNotFound, errorPageName, errorPage{
			pageData: service.page(ctx, "Perfume not found"),
			Message:  "The perfume you are looking for does not exist or was removed.",
		})
	}

	slog.Error(handler+": request failed",
		"status", http.StatusInternalServerError, "path", ctx.Path(), "error", err)
	return ctx.Render(http.StatusInternalServerError, errorPageName, errorPage{
		pageData: service.page(ctx, "Something went wrong"),
		Message:  "Something went wrong. Please try again.",
	})
}

func (service *FrontendService) page(ctx echo.Context, title string) pageData {
	return pageData{Title: title, Flash: service.flasher.Take(ctx)}
}

func (service *FrontendService) createForm(ctx echo.Context, values, fieldErrors map[string]string) formPage {
	return formPage{
		pageData:    service.page(ctx, "Add Perfume"),
		Action:      "/perfumes",
		SubmitLabel: "Add Perfume",
		CancelURL:   "/",
		Values:      nonNil(values),
		Errors:      nonNil(fieldErrors),
		Suggestions: core.CategorySuggestions(),
	}
}

func (service *FrontendService) editForm(ctx echo.Context, perfume *database.Perfume, values, fieldErrors map[string]string) formPage {
	view := service.toView(perfume)
	return formPage{
		pageData:    service.page(ctx, "Edit "+perfume.Name),
		Perfume:     &view,
		Action:      perfumeURL(perfume.ID),
		SubmitLabel: "Update Perfume",
		CancelURL:   perfumeURL(perfume.ID),
		Values:      nonNil(values),
		Errors:      nonNil(fieldErrors),
		Suggestions: core.CategorySuggestions(),
	}
}

func (service *FrontendService) toView(perfume *database.Perfume) perfumeView {
	return perfumeView{
		Perfume:      perfume,
		ImageURL:     service.coreService.ImageURL(perfume),
		ThumbnailURL: fmt.Sprintf("%s/thumbnail?v=%d", perfumeURL(perfume.ID), perfume.UpdatedAt.UnixNano()),
	}
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

// PageURL links to page n of the current listing, keeping search and category.
func (p indexPage) PageURL(n int) string {
	return listURL(p.Search, p.Category, n)
}

// CategoryURL toggles the category filter, keeping the search term.
func (p indexPage) CategoryURL(category string) string {
	if category == p.Category {
		category = ""
	}
	return listURL(p.Search, category, 1)
}

func (p indexPage) Filtered() bool {
	return p.Search != "" || p.Category != ""
}

func (p indexPage) PreviousPage() int {
	return p.Perfumes.CurrentPage - 1
}

func (p indexPage) NextPage() int {
	return p.Perfumes.CurrentPage + 1
}

func listURL(search, category string, page int) string {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if category != "" {
		query.Set("category", category)
	}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}
	if len(query) == 0 {
		return "/"
	}
	return "/?" + query.Encode()
}

func perfumeURL(id int64) string {
	return "/perfumes/" + strconv.FormatInt(id, 10)
}

func valuesOf(perfume *database.Perfume) map[string]string {
	values := map[string]string{
		"name":        perfume.Name,
		"brand":       perfume.Brand,
		"description": perfume.Description,
		"price":       perfume.Price.StringFixed(2),
		"category":    perfume.Category,
	}
	if perfume.SubCategory != nil {
		values["sub_category"] = *perfume.SubCategory
	}
	return values
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
