package core

import (
	"bytes"
	"errors"
	"image"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
	"github.com/jo-hoe/perfumecatalog/internal/common"
	"github.com/shopspring/decimal"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const MaxImageBytes = 2 * 1024 * 1024

const (
	imageNotAnImage = "The file must be an image."
	imageWrongType  = "Image must be a jpeg, png, jpg, or gif file."
	imageTooLarge   = "Image size cannot exceed 2MB."
)

var (
	maxPrice          = decimal.RequireFromString("99999999.99")
	allowedImageMimes = []string{"image/jpeg", "image/png", "image/gif"}
)

// ImageTooLarge is the validation failure for an upload rejected before it could be read.
func ImageTooLarge() *ValidationError {
	return &ValidationError{Fields: map[string]string{"image": imageTooLarge}}
}

// PerfumeFieldNames lists the editable request fields in form order.
var PerfumeFieldNames = []string{"name", "brand", "description", "price", "category", "sub_category"}

// ImageUpload is an uploaded file as received from a form.
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

func (u *ImageUpload) Size() int {
	return len(u.Data)
}

// perfumeInput mirrors the editable fields after trimming. Tag order is rule order.
type perfumeInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Brand       string `json:"brand" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price" validate:"required,price_number,price_not_negative,price_max"`
	Category    string `json:"category" validate:"required,max=255"`
	SubCategory string `json:"sub_category" validate:"max=255"`
}

var validationMessages = map[string]map[string]string{
	"name": {
		"required": "Perfume name is required.",
		"max":      "The name field must not be greater than 255 characters.",
	},
	"brand": {
		"required": "Brand is required.",
		"max":      "The brand field must not be greater than 255 characters.",
	},
	"description": {
		"required": "Description is required.",
	},
	"price": {
		"required":           "Price is required.",
		"price_number":       "Price must be a valid number.",
		"price_not_negative": "Price cannot be negative.",
		"price_max":          "The price field must not be greater than 99999999.99.",
	},
	"category": {
		"required": "Category is required.",
		"max":      "The category field must not be greater than 255 characters.",
	},
	"sub_category": {
		"max": "The sub category field must not be greater than 255 characters.",
	},
}

func priceNumberValidator(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

func priceNotNegativeValidator(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !value.IsNegative()
}

func priceMaxValidator(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	return err == nil && value.LessThanOrEqual(maxPrice)
}

func init() {
	v := common.V()
	for tag, fn := range map[string]validator.Func{
		"price_number":       priceNumberValidator,
		"price_not_negative": priceNotNegativeValidator,
		"price_max":          priceMaxValidator,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// ValidatePerfume checks raw field values and an optional image. It either returns the complete,
// normalized field set or a *ValidationError listing every failing field.
func ValidatePerfume(raw map[string]string, upload *ImageUpload) (database.PerfumeFields, error) {
	input := perfumeInput{
		Name:        strings.TrimSpace(raw["name"]),
		Brand:       strings.TrimSpace(raw["brand"]),
		Description: strings.TrimSpace(raw["description"]),
		Price:       strings.TrimSpace(raw["price"]),
		Category:    strings.TrimSpace(raw["category"]),
		SubCategory: strings.TrimSpace(raw["sub_category"]),
	}

	failures := map[string]string{}
	if err := common.V().Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return database.PerfumeFields{}, err
		}
		for _, fieldError := range validationErrors {
			failures[fieldError.Field()] = messageFor(fieldError)
		}
	}
	if upload != nil {
		if message := validateImage(upload); message != "" {
			failures["image"] = message
		}
	}
	if len(failures) > 0 {
		return database.PerfumeFields{}, &ValidationError{Fields: failures}
	}

	fields := database.PerfumeFields{
		Name:        input.Name,
		Brand:       input.Brand,
		Description: input.Description,
		Price:       decimal.RequireFromString(input.Price).Round(2),
		Category:    input.Category,
	}
	if input.SubCategory != "" {
		subCategory := input.SubCategory
		fields.SubCategory = &subCategory
	}
	return fields, nil
}

func messageFor(fieldError validator.FieldError) string {
	if message, ok := validationMessages[fieldError.Field()][fieldError.Tag()]; ok {
		return message
	}
	return "The " + strings.ReplaceAll(fieldError.Field(), "_", " ") + " field is invalid."
}

// validateImage applies the image rules in order and returns the first failing message.
func validateImage(upload *ImageUpload) string {
	if _, _, err := image.DecodeConfig(bytes.NewReader(upload.Data)); err != nil {
		return imageNotAnImage
	}
	if !mimetype.EqualsAny(mimetype.Detect(upload.Data).String(), allowedImageMimes...) {
		return imageWrongType
	}
	if upload.Size() > MaxImageBytes {
		return imageTooLarge
	}
	return ""
}

// UploadFrom converts a request file into an ImageUpload, keeping nil as "no image".
func UploadFrom(file *common.UploadedFile) *ImageUpload {
	if file == nil {
		return nil
	}
	return &ImageUpload{Data: file.Data, Filename: file.Filename, ContentType: file.ContentType}
}
