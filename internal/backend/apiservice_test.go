package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jo-hoe/perfumecatalog/internal/backend/blobstore"
	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
	"github.com/jo-hoe/perfumecatalog/internal/common"
	"github.com/jo-hoe/perfumecatalog/internal/core"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	echo    *echo.Echo
	service *core.CoreService
	blobs   *blobstore.MemoryStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	blobs := blobstore.NewMemoryStore("/storage")
	config := &core.ServiceConfig{
		Port:           8080,
		Database:       core.Database{Type: "memory"},
		BlobStore:      blobstore.Config{Type: "memory", PublicPrefix: "/storage"},
		ThumbnailWidth: 320,
	}
	service, err := core.NewCoreServiceWithStores(config, database.NewMemoryDatabase(), blobs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = service.Close() })

	e := echo.New()
	e.Validator = &common.GenericEchoValidator{}
	NewAPIService(service).SetRoutes(e)
	return &apiFixture{echo: e, service: service, blobs: blobs}
}

func (f *apiFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) seed(t *testing.T, name, category string) *database.Perfume {
	t.Helper()
	perfume, err := f.service.CreatePerfume(context.Background(), map[string]string{
		"name":        name,
		"brand":       "Maison",
		"description": "A test perfume.",
		"price":       "89.5",
		"category":    category,
	}, nil)
	require.NoError(t, err)
	return perfume
}

func jsonRequest(method, target string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "bottle.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 12))))
	return buf.Bytes()
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value))
	return value
}

func validFields() map[string]string {
	return map[string]string{
		"name":         "Aventus",
		"brand":        "Creed",
		"description":  "Pineapple and birch.",
		"price":        "325.5",
		"category":     "Woody",
		"sub_category": "Smoky",
	}
}

func TestAPI_Probe(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_CreateMultipartWithImage(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(multipartRequest(t, http.MethodPost, "/api/perfumes", validFields(), pngBytes(t)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	view := decodeBody[PerfumeView](t, rec)
	assert.Equal(t, "Aventus", view.Name)
	assert.Equal(t, "325.50", view.Price)
	assert.Equal(t, "$325.50", view.FormattedPrice)
	assert.Equal(t, "Woody - Smoky", view.DisplayCategory)
	require.NotNil(t, view.ImageURL)
	assert.True(t, strings.HasPrefix(*view.ImageURL, "/storage/perfumes/"))
	assert.Equal(t, 1, f.blobs.Len())
}

func TestAPI_CreateJSON(t *testing.T) {
	f := newAPIFixture(t)

	body := map[string]any{
		"name":        "Light Blue",
		"brand":       "Dolce & Gabbana",
		"description": "Sicilian lemon.",
		"price":       95,
		"category":    "Citrus",
	}
	rec := f.do(jsonRequest(http.MethodPost, "/api/perfumes", body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	view := decodeBody[PerfumeView](t, rec)
	assert.Equal(t, "95.00", view.Price)
	assert.Nil(t, view.SubCategory)
	assert.Nil(t, view.ImageURL)
	assert.Equal(t, "Citrus", view.DisplayCategory)
}

func TestAPI_CreateValidationFailure(t *testing.T) {
	f := newAPIFixture(t)

	fields := validFields()
	fields["name"] = ""
	fields["price"] = "abc"
	rec := f.do(multipartRequest(t, http.MethodPost, "/api/perfumes", fields, []byte("%PDF-1.4 not an image")))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	response := decodeBody[errorResponse](t, rec)
	assert.Equal(t, map[string]string{
		"name":  "Perfume name is required.",
		"price": "Price must be a valid number.",
		"image": "The file must be an image.",
	}, response.Errors)
	assert.Equal(t, 0, f.blobs.Len())
}

func TestAPI_OversizedUploadIsImageError(t *testing.T) {
	oversized := func(t *testing.T) []byte {
		return append(pngBytes(t), make([]byte, 5*1024*1024)...)
	}
	tests := []struct {
		name          string
		method        string
		target        func(t *testing.T, f *apiFixture) string
		contentLength int64
	}{
		{name: "create with declared length", method: http.MethodPost, target: func(*testing.T, *apiFixture) string { return "/api/perfumes" }},
		{name: "create without declared length", method: http.MethodPost, target: func(*testing.T, *apiFixture) string { return "/api/perfumes" }, contentLength: -1},
		{name: "update with declared length", method: http.MethodPut, target: func(t *testing.T, f *apiFixture) string {
			return fmt.Sprintf("/api/perfumes/%d", f.seed(t, "Sauvage", "Fresh").ID)
		}},
		{name: "update without declared length", method: http.MethodPost, target: func(t *testing.T, f *apiFixture) string {
			return fmt.Sprintf("/api/perfumes/%d", f.seed(t, "Sauvage", "Fresh").ID)
		}, contentLength: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			req := multipartRequest(t, tt.method, tt.target(t, f), validFields(), oversized(t))
			if tt.contentLength != 0 {
				req.ContentLength = tt.contentLength
			}

			rec := f.do(req)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			response := decodeBody[errorResponse](t, rec)
			assert.Equal(t, "The given data was invalid.", response.Message)
			assert.Equal(t, map[string]string{"image": "Image size cannot exceed 2MB."}, response.Errors)
			assert.Equal(t, 0, f.blobs.Len())
		})
	}
}

func TestAPI_Get(t *testing.T) {
	f := newAPIFixture(t)
	perfume := f.seed(t, "Sauvage", "Fresh")

	rec := f.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/perfumes/%d", perfume.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeBody[PerfumeView](t, rec)
	assert.Equal(t, perfume.ID, view.ID)
	assert.Equal(t, "89.50", view.Price)
}

func TestAPI_NotFound(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{name: "get unknown id", req: httptest.NewRequest(http.MethodGet, "/api/perfumes/99", nil)},
		{name: "get malformed id", req: httptest.NewRequest(http.MethodGet, "/api/perfumes/abc", nil)},
		{name: "get zero id", req: httptest.NewRequest(http.MethodGet, "/api/perfumes/0", nil)},
		{name: "update unknown id", req: jsonRequest(http.MethodPut, "/api/perfumes/99", validFields())},
		{name: "update malformed id", req: jsonRequest(http.MethodPut, "/api/perfumes/x1", validFields())},
		{name: "delete unknown id", req: httptest.NewRequest(http.MethodDelete, "/api/perfumes/99", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.req)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestAPI_Update(t *testing.T) {
	f := newAPIFixture(t)
	perfume := f.seed(t, "Sauvage", "Fresh")

	fields := validFields()
	fields["name"] = "Sauvage Elixir"
	fields["price"] = "10.125"
	for _, method := range []string{http.MethodPut, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			rec := f.do(jsonRequest(method, fmt.Sprintf("/api/perfumes/%d", perfume.ID), fields))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			view := decodeBody[PerfumeView](t, rec)
			assert.Equal(t, "Sauvage Elixir", view.Name)
			assert.Equal(t, "10.13", view.Price)
		})
	}
}

func TestAPI_UpdateValidationFailure(t *testing.T) {
	f := newAPIFixture(t)
	perfume := f.seed(t, "Sauvage", "Fresh")

	fields := validFields()
	fields["price"] = "-1"
	rec := f.do(jsonRequest(http.MethodPut, fmt.Sprintf("/api/perfumes/%d", perfume.ID), fields))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	response := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Price cannot be negative.", response.Errors["price"])
}

func TestAPI_Delete(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(multipartRequest(t, http.MethodPost, "/api/perfumes", validFields(), pngBytes(t)))
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeBody[PerfumeView](t, rec)

	rec = f.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/perfumes/%d", view.ID), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.blobs.Len())

	rec = f.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/perfumes/%d", view.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_ListFiltersAndPaginates(t *testing.T) {
	f := newAPIFixture(t)
	for i := 0; i < 14; i++ {
		f.seed(t, fmt.Sprintf("Rose %02d", i), "Floral")
	}
	f.seed(t, "Vetiver", "Woody")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/perfumes?category=Floral&page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	response := decodeBody[listResponse](t, rec)
	assert.Equal(t, 14, response.Perfumes.Total)
	assert.Equal(t, 2, response.Perfumes.CurrentPage)
	assert.Equal(t, 2, response.Perfumes.LastPage)
	assert.Equal(t, 12, response.Perfumes.PerPage)
	assert.Len(t, response.Perfumes.Data, 2)
	assert.Equal(t, []string{"Floral", "Woody"}, response.Categories)
	assert.Equal(t, listFilters{Category: "Floral"}, response.Filters)

	query := url.Values{"search": {"vetiver"}, "page": {"nonsense"}}
	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/perfumes?"+query.Encode(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	response = decodeBody[listResponse](t, rec)
	assert.Equal(t, 1, response.Perfumes.Total)
	assert.Equal(t, 1, response.Perfumes.CurrentPage)
	require.Len(t, response.Perfumes.Data, 1)
	assert.Equal(t, "Vetiver", response.Perfumes.Data[0].Name)
}

func TestAPI_Categories(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "Oud Wood", "Woody")
	f.seed(t, "Angel", "Gourmand")
	f.seed(t, "Santal 33", "Woody")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Gourmand", "Woody"}, decodeBody[[]string](t, rec))

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/categories/suggestions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions := decodeBody[[]core.CategorySuggestion](t, rec)
	assert.Equal(t, core.CategorySuggestions(), suggestions)
}
