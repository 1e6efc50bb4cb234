package utils

import (
	"encoding/json"
	"net/http"
	"regexp"

	"skillsmatrix/models"

	"github.com/go-playground/validator/v10"
)

const RequestIDHeader = "X-Request-ID"

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	skillKeyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()
	_ = Validate.RegisterValidation("assessment_email", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
	_ = Validate.RegisterValidation("skill_key", func(fl validator.FieldLevel) bool {
		return skillKeyPattern.MatchString(fl.Field().String())
	})
}

// ValidateEmail reports whether s looks like a deliverable address.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidationMessages flattens validator errors into field -> failed tag.
func ValidationMessages(err error) map[string]string {
	errorMessages := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errorMessages["body"] = err.Error()
		return errorMessages
	}
	for _, e := range validationErrors {
		errorMessages[e.Namespace()] = e.Tag()
	}
	return errorMessages
}

// DecodeAndValidate decodes the request body into a structure and validates it
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		HandleMessageResponse(w, "Malformed request body", http.StatusBadRequest)
		return err
	}
	if err := Validate.Struct(v); err != nil {
		HandleValidationResponse(w, http.StatusBadRequest, ValidationMessages(err))
		return err
	}
	return nil
}

// HandleMessageResponse writes a message envelope
func HandleMessageResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewMessageResponse(statusCode, message)
	response.RequestID = w.Header().Get(RequestIDHeader)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// HandleValidationResponse handles validation errors response for struct validation
func HandleValidationResponse(w http.ResponseWriter, statusCode int, validationErrors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewValidationResponse(statusCode, validationErrors)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// HandleDataResponse handles success responses with data
func HandleDataResponse(w http.ResponseWriter, message string, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewDataResponse(statusCode, message, data)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
