package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// UploadedFile is a file read from a multipart request.
type UploadedFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// IDParam is the numeric :id path parameter shared by the API and the UI.
type IDParam struct {
	ID int64 `param:"id" json:"id" validate:"required,gt=0"`
}

// BindID reads and validates the :id path parameter. Any error means the id cannot name a record.
func BindID(ctx echo.Context) (int64, error) {
	var param IDParam
	if err := (&echo.DefaultBinder{}).BindPathParams(ctx, &param); err != nil {
		return 0, err
	}
	if err := ctx.Validate(&param); err != nil {
		return 0, err
	}
	return param.ID, nil
}

// ReadFields collects the named fields from a JSON, urlencoded or multipart body.
// JSON scalars are converted to their textual form; absent fields are omitted.
func ReadFields(ctx echo.Context, names []string) (map[string]string, error) {
	fields := make(map[string]string, len(names))

	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		body := make(map[string]any)
		decoder := json.NewDecoder(ctx.Request().Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			if IsBodyTooLarge(err) {
				return nil, err
			}
			return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed JSON body")
		}
		for _, name := range names {
			if value, ok := body[name]; ok {
				fields[name] = stringify(value)
			}
		}
		return fields, nil
	}

	values, err := ctx.FormParams()
	if IsBodyTooLarge(err) {
		return nil, err
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed form body")
	}
	for _, name := range names {
		if _, ok := values[name]; ok {
			fields[name] = values.Get(name)
		}
	}
	return fields, nil
}

// ReadFile returns the uploaded file of the given form field or nil when none was sent.
func ReadFile(ctx echo.Context, field string) (*UploadedFile, error) {
	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return &UploadedFile{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
	}, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// PageParam returns the ?page query value; anything unparsable or below 1 is page 1.
func PageParam(ctx echo.Context) int {
	page := 1
	if err := echo.QueryParamsBinder(ctx).Int("page", &page).BindError(); err != nil || page < 1 {
		return 1
	}
	return page
}

// ReadForm reads the named fields and the optional file of a create or update request.
func ReadForm(ctx echo.Context, names []string, fileField string) (map[string]string, *UploadedFile, error) {
	fields, err := ReadFields(ctx, names)
	if err != nil {
		return nil, nil, err
	}
	file, err := ReadFile(ctx, fileField)
	if IsBodyTooLarge(err) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return fields, file, nil
}
