package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ignatij/vineyard/pkg/planner"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput marks request data that failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when a user touches a farm or alert they may not access.
	ErrForbidden = errors.New("access denied")
)

var validate = validator.New()

// CreateFarmRequest is the input of FarmService.CreateFarm. Zero spacings
// fall back to the variety's recommended spacing.
type CreateFarmRequest struct {
	Name               string  `json:"farm_name" validate:"required,max=100"`
	Length             float64 `json:"farm_length" validate:"gt=0"`
	Width              float64 `json:"farm_width" validate:"gt=0"`
	GrapeVariety       string  `json:"grape_variety" validate:"required,max=100"`
	PlantWidthSpacing  float64 `json:"plant_width_spacing" validate:"gte=0"`
	PlantLengthSpacing float64 `json:"plant_length_spacing" validate:"gte=0"`
}

// LayoutRequest carries the layout calculator inputs in meters.
type LayoutRequest struct {
	FarmLength         float64 `json:"farmLength" validate:"gt=0"`
	FarmWidth          float64 `json:"farmWidth" validate:"gt=0"`
	PlantLengthSpacing float64 `json:"plantLengthSpacing" validate:"gt=0"`
	PlantWidthSpacing  float64 `json:"plantWidthSpacing" validate:"gt=0"`
}

// NoteRequest creates a plant note. Row and Col address a vine of the farm
// layout grid and are pointers so that a missing coordinate is told apart
// from zero.
type NoteRequest struct {
	Row *int `json:"row" validate:"required,gte=0"`
	Col *int `json:"col" validate:"required,gte=0"`
	NoteUpdate
}

// NoteUpdate carries the editable fields of a plant note.
type NoteUpdate struct {
	Title   string `json:"title" validate:"required,max=200"`
	Type    string `json:"type" validate:"required,max=50"`
	Content string `json:"content" validate:"required,max=5000"`
}

// RegisterConsultantRequest is the consultant's profile.
type RegisterConsultantRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"max=32"`
	Location       string `json:"location" validate:"max=100"`
	Specialization string `json:"specialization" validate:"max=100"`
	Experience     int    `json:"experience" validate:"gte=0,lte=80"`
}

// WithDefaults fills missing spacings with the default vine spacing.
func (r LayoutRequest) WithDefaults() LayoutRequest {
	if r.PlantLengthSpacing == 0 {
		r.PlantLengthSpacing = planner.DefaultSpacing.Length
	}
	if r.PlantWidthSpacing == 0 {
		r.PlantWidthSpacing = planner.DefaultSpacing.Width
	}
	return r
}

// Validate checks v against its validate tags. Failures wrap ErrInvalidInput.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	var msgs []string
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.Field(), ruleText(e)))
	}
	return errors.Wrap(ErrInvalidInput, strings.Join(msgs, "; "))
}

func ruleText(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}
