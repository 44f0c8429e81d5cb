package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchParams struct {
	Text    string `validate:"max=10"`
	Page    int    `validate:"gte=1"`
	PerPage int    `validate:"min=1,max=100"`
	Source  string `validate:"required,oneof=postgres redis"`
	Backend string `validate:"omitempty,url"`
}

func valid() searchParams {
	return searchParams{Text: "shirt", Page: 1, PerPage: 12, Source: "postgres"}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(valid()))
}

func TestValidate_Required(t *testing.T) {
	p := valid()
	p.Source = ""

	var verr *ValidationError
	require.ErrorAs(t, Validate(p), &verr)
	assert.Equal(t, "is required", verr.Fields()["Source"])
}

func TestValidate_OneOf(t *testing.T) {
	p := valid()
	p.Source = "mysql"

	var verr *ValidationError
	require.ErrorAs(t, Validate(p), &verr)
	assert.Equal(t, "must be one of: postgres redis", verr.Fields()["Source"])
}

func TestValidate_StringAndNumberBounds(t *testing.T) {
	p := valid()
	p.Text = "a very long query"
	p.PerPage = 500

	var verr *ValidationError
	require.ErrorAs(t, Validate(p), &verr)
	fields := verr.Fields()
	assert.Equal(t, "must be at most 10 characters", fields["Text"])
	assert.Equal(t, "must be at most 100", fields["PerPage"])
}

func TestValidate_Gte(t *testing.T) {
	p := valid()
	p.Page = 0

	var verr *ValidationError
	require.ErrorAs(t, Validate(p), &verr)
	assert.Equal(t, "must be greater than or equal to 1", verr.Fields()["Page"])
}

func TestValidate_URL(t *testing.T) {
	p := valid()
	p.Backend = "not a url"

	var verr *ValidationError
	require.ErrorAs(t, Validate(p), &verr)
	assert.Equal(t, "must be a valid URL", verr.Fields()["Backend"])
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	p := valid()
	p.Source = ""
	p.Page = 0

	err := Validate(p)
	require.Error(t, err)
	assert.Equal(t,
		"field 'Page' must be greater than or equal to 1; field 'Source' is required",
		err.Error())
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate("plain string")
	require.Error(t, err)

	var verr *ValidationError
	assert.NotErrorAs(t, err, &verr)
}
