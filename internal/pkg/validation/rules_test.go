package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Code  string  `validate:"checkincode"`
	Role  string  `validate:"clubrole"`
	Team  string  `validate:"teamrole"`
	Reg   string  `validate:"regrole"`
	Hours float64 `validate:"halfhours"`
	Phone string  `validate:"omitempty,phone"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestRegister_Valid(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(sample{Code: "a1B2c3", Role: "club_deputy", Team: "leader", Reg: "organizer", Hours: 2.5, Phone: "+90 555 123 4567"})
	assert.NoError(t, err)
}

func TestRegister_Invalid(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(sample{Code: "12345", Role: "president", Team: "captain", Reg: "guest", Hours: 1.2, Phone: "call me"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	tags := map[string]string{}
	for _, fe := range verrs {
		tags[fe.Field()] = fe.Tag()
		assert.NotEmpty(t, Message(fe))
	}
	assert.Equal(t, map[string]string{
		"Code":  "checkincode",
		"Role":  "clubrole",
		"Team":  "teamrole",
		"Reg":   "regrole",
		"Hours": "halfhours",
		"Phone": "phone",
	}, tags)
}
