package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name                 string `json:"name" validate:"required,username"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,pwd"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(signup{Name: "", Email: "nope", Password: "123", PasswordConfirmation: "1234"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.Equal(t, "confirmation does not match", details["password_confirmation"])
}

func TestToDetailsLengthLimits(t *testing.T) {
	v := New()
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	err := v.Struct(signup{Name: string(long), Email: "a@x.com", Password: "secret1", PasswordConfirmation: "secret1"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "must be at most 50 characters long"}, ToDetails(err))
}

func TestToDetailsValid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(signup{Name: "Alice", Email: "a@x.com", Password: "secret1", PasswordConfirmation: "secret1"}))
	assert.Nil(t, ToDetails(nil))
}

func TestToDetailsJSONErrors(t *testing.T) {
	var out map[string]any
	err := json.Unmarshal([]byte("{bad"), &out)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}
