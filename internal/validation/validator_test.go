package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title" validate:"required"`
	Pages int    `json:"pages" validate:"min=1"`
	Score int    `json:"score" validate:"max=5"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Title: "Dune", Pages: 10, Score: 5}))

	err := Struct(sample{Pages: 0, Score: 9})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, FieldError{Field: "title", Tag: "required"}, verr.Fields[0])
	assert.Equal(t, "pages", verr.Fields[1].Field)
	assert.Equal(t, "1", verr.Fields[1].Param)
	assert.Equal(t, "title is required; pages must be at least 1; score must be at most 5", err.Error())
}
