package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadFields() []Field {
	return []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "phone", Label: "Phone", Required: true},
		{Name: "email", Label: "Email", Required: true},
		{Name: "source", Label: "Source"},
	}
}

func TestValidateCollectsAllMissingFields(t *testing.T) {
	d := New(leadFields(), nil)
	d.Set("name", "Acme")

	errs := d.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "Phone is required", errs["phone"])
	assert.Equal(t, "Email is required", errs["email"])
	assert.False(t, d.Valid())
}

func TestWhitespaceDoesNotSatisfyRequired(t *testing.T) {
	d := New(leadFields(), nil)
	d.Set("name", "   ")
	errs := d.Validate()
	assert.Contains(t, errs, "name")
}

func TestSubmittableWhenRequiredFilled(t *testing.T) {
	d := New(leadFields(), nil)
	d.Set("name", "Acme")
	d.Set("phone", "555")
	d.Set("email", "a@acme.io")

	assert.Empty(t, d.Validate())
	assert.True(t, d.Valid())
	// optional field may stay blank
	assert.Empty(t, d.Get("source"))
}

func TestEditSeedsValues(t *testing.T) {
	d := New(leadFields(), map[string]string{"name": "Acme", "phone": "555"})
	assert.True(t, d.Editing())
	assert.Equal(t, "Acme", d.Get("name"))

	d.Set("phone", "556")
	vals := d.Values()
	assert.Equal(t, "556", vals["phone"])
}

func TestSetClearsFieldError(t *testing.T) {
	d := New(leadFields(), nil)
	d.Validate()
	require.NotEmpty(t, d.Error("name"))

	d.Set("name", "Acme")
	assert.Empty(t, d.Error("name"))
}
