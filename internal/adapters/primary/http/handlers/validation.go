package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"diabetes-prediction-service/internal/adapters/primary/http/dto"
	"diabetes-prediction-service/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const locBody = "body"

var jsonNull = []byte("null")

// decodePredictRequest checks every field of an already parsed JSON object
// and reports all rejected fields at once, in declaration order. Unknown
// keys are ignored.
func decodePredictRequest(fields map[string]json.RawMessage) (*dto.PredictRequest, []dto.ValidationError) {
	req := new(dto.PredictRequest)
	mistyped := make(map[string]bool)

	for _, name := range domain.FeatureNames() {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var v float64
		if bytes.Equal(bytes.TrimSpace(raw), jsonNull) || json.Unmarshal(raw, &v) != nil {
			mistyped[name] = true
			continue
		}
		*req.Field(name) = &v
	}

	failed := make(map[string]validator.FieldError)
	if err := binding.Validator.ValidateStruct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, validationDetails(err)
		}
		for _, fe := range fieldErrs {
			failed[fe.Field()] = fe
		}
	}

	var details []dto.ValidationError
	for _, name := range domain.FeatureNames() {
		if mistyped[name] {
			details = append(details, dto.ValidationError{
				Loc:  []string{locBody, name},
				Msg:  "Input should be a valid number",
				Type: "float_type",
			})
			continue
		}
		if fe, ok := failed[name]; ok {
			details = append(details, fieldDetail(fe))
		}
	}
	if len(details) > 0 {
		return nil, details
	}
	return req, nil
}

// validationDetails describes a body that could not be parsed as a JSON object.
func validationDetails(err error) []dto.ValidationError {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.As(err, &typeErr):
		return []dto.ValidationError{{
			Loc:  []string{locBody},
			Msg:  "Input should be a valid dictionary or object",
			Type: "model_attributes_type",
		}}

	case errors.Is(err, io.EOF):
		return []dto.ValidationError{{
			Loc:  []string{locBody},
			Msg:  "Field required",
			Type: "missing",
		}}

	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []dto.ValidationError{{
			Loc:  []string{locBody},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}

	default:
		return []dto.ValidationError{{
			Loc:  []string{locBody},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}
}

func fieldDetail(fe validator.FieldError) dto.ValidationError {
	d := dto.ValidationError{Loc: []string{locBody, fe.Field()}}
	switch fe.Tag() {
	case "required":
		d.Msg = "Field required"
		d.Type = "missing"
	case "gte":
		d.Msg = "Input should be greater than or equal to " + fe.Param()
		d.Type = "greater_than_equal"
	default:
		d.Msg = "Invalid value"
		d.Type = "value_error"
	}
	return d
}
