package core

import (
	"context"

	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
)

// PageSize is the fixed number of perfumes per page.
const PageSize = 12

type ListRequest struct {
	Search   string
	Category string
	Page     int
}

type PagedResult[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

func newPagedResult[T any](data []T, page, total int) *PagedResult[T] {
	if data == nil {
		data = []T{}
	}
	return &PagedResult[T]{
		Data:        data,
		CurrentPage: page,
		LastPage:    lastPage(total),
		PerPage:     PageSize,
		Total:       total,
	}
}

func lastPage(total int) int {
	return max(1, (total+PageSize-1)/PageSize)
}

// From is the 1-based position of the first item on the page, 0 when the page is empty.
func (p *PagedResult[T]) From() int {
	if len(p.Data) == 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.PerPage + 1
}

// To is the position of the last item on the page, 0 when the page is empty.
func (p *PagedResult[T]) To() int {
	if len(p.Data) == 0 {
		return 0
	}
	return p.From() + len(p.Data) - 1
}

func (p *PagedResult[T]) HasPages() bool {
	return p.LastPage > 1
}

func (p *PagedResult[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

func (p *PagedResult[T]) HasNext() bool {
	return p.CurrentPage < p.LastPage
}

// Pages lists every page number from 1 to LastPage.
func (p *PagedResult[T]) Pages() []int {
	pages := make([]int, p.LastPage)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// ListPerfumes returns one page of perfumes matching the request, newest first.
func (service *CoreService) ListPerfumes(ctx context.Context, request ListRequest) (*PagedResult[*database.Perfume], error) {
	filter := database.NewFilter(request.Search, request.Category)
	page := max(request.Page, 1)

	total, err := service.databaseService.CountPerfumes(ctx, filter)
	if err != nil {
		return nil, storageFailure("count perfumes", err)
	}

	var perfumes []*database.Perfume
	if page <= lastPage(total) {
		perfumes, err = service.databaseService.ListPerfumes(ctx, filter, PageSize, (page-1)*PageSize)
		if err != nil {
			return nil, storageFailure("list perfumes", err)
		}
	}
	return newPagedResult(perfumes, page, total), nil
}

// DistinctCategories returns every category in use, sorted.
func (service *CoreService) DistinctCategories(ctx context.Context) ([]string, error) {
	categories, err := service.databaseService.DistinctCategories(ctx)
	if err != nil {
		return nil, storageFailure("list categories", err)
	}
	return categories, nil
}
