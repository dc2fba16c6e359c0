package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
)

type slot struct {
	Start string  `json:"start_time" validate:"required,hhmm"`
	End   *string `json:"end_time" validate:"omitempty,hhmm_or_empty"`
	Link  string  `json:"link" validate:"omitempty,url"`
	Kind  string  `json:"kind" validate:"omitempty,oneof=in_person video_call"`
}

func TestValidateReportsJSONFieldName(t *testing.T) {
	v := New()

	err := v.Validate(slot{Start: "9:30"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, "start_time", appErr.Field)
}

func TestValidateAcceptsEmptyEndTimePatch(t *testing.T) {
	v := New()
	empty := ""

	assert.NoError(t, v.Validate(slot{Start: "09:30", End: &empty}))
	assert.NoError(t, v.Validate(slot{Start: "23:59"}))

	bad := "25:00"
	assert.Error(t, v.Validate(slot{Start: "09:30", End: &bad}))
}

func TestValidateOneOf(t *testing.T) {
	err := New().Validate(slot{Start: "10:00", Kind: "phone"})

	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "kind must be one of")
}

func TestIsClock(t *testing.T) {
	assert.True(t, IsClock("00:00"))
	assert.True(t, IsClock("18:45"))
	assert.False(t, IsClock("7:05"))
	assert.False(t, IsClock("24:00"))
	assert.False(t, IsClock("12:60"))
	assert.False(t, IsClock(""))
}
