package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string   `json:"name" validate:"required"`
	Tags  []string `json:"tags" validate:"required,min=1"`
	Level string   `json:"level,omitempty" validate:"omitempty,oneof=low high"`
}

type wrapper struct {
	Items []item `json:"items" validate:"dive"`
}

func TestStructOK(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Struct(item{Name: "a", Tags: []string{"x"}}))
}

func TestStructFields(t *testing.T) {
	v := NewValidator()
	err := v.Struct(wrapper{Items: []item{{Name: "ok", Tags: []string{"t"}}, {Level: "mid"}}})
	require.Error(t, err)

	var fe *FieldsError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Fields, "items[1].name")
	assert.Contains(t, fe.Fields, "items[1].tags")
	assert.Contains(t, fe.Fields, "items[1].level")
	assert.NotContains(t, fe.Fields, "items[0].name")
	assert.Contains(t, fe.Error(), "validation failed: ")
}

func TestFieldsErrorEmpty(t *testing.T) {
	assert.Equal(t, "validation failed", NewFieldsError(nil).Error())
}
