package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skillsmatrix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"jane.doe@example.com", "a+b@sub.example.co", "x_y%z@host.io"}
	invalid := []string{"", "jane", "jane@", "@example.com", "jane@example", "jane doe@example.com", "jane@example.c"}

	for _, s := range valid {
		assert.True(t, ValidateEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidateEmail(s), s)
	}
}

func TestValidate_AssessmentRecord(t *testing.T) {
	rec := models.Assessment{
		EmailAddress:          "jane@example.com",
		NameOfResource:        "Jane",
		CareerLevelOfResource: "Professional I",
		NameOfRespondent:      "Jane",
		Capability:            "QA",
		Skills:                models.SkillRatings{"softwareTesting": 4},
	}
	rec.Timestamp = rec.Timestamp.AddDate(2024, 0, 0)
	require.NoError(t, Validate.Struct(rec))

	bad := rec
	bad.EmailAddress = "not-an-email"
	bad.Skills = models.SkillRatings{"software testing": 7}
	err := Validate.Struct(bad)
	require.Error(t, err)

	msgs := ValidationMessages(err)
	assert.Equal(t, "assessment_email", msgs["Assessment.EmailAddress"])
	assert.Contains(t, msgs, "Assessment.Skills[software testing]")
}

func TestDecodeAndValidate(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))

		var p payload
		require.Error(t, DecodeAndValidate(w, r, &p))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))

		var p payload
		require.Error(t, DecodeAndValidate(w, r, &p))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body models.ValidationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "required", body.Errors["payload.Name"])
	})

	t.Run("ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))

		var p payload
		require.NoError(t, DecodeAndValidate(w, r, &p))
		assert.Equal(t, "x", p.Name)
	})
}

func TestHandleMessageResponse_EchoesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set(RequestIDHeader, "rid-1")

	HandleMessageResponse(w, "nope", http.StatusNotFound)

	var body models.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.MessageResponse{StatusCode: 404, Message: "nope", RequestID: "rid-1"}, body)
}
