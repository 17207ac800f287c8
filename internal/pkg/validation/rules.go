package validation

import (
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/clubhub/internal/domain"
)

var (
	// CheckInCodePattern accepts the six character codes handed out at events
	CheckInCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

	// PhonePattern is a loose international phone number
	PhonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
)

// Register adds the custom rules used by request DTOs to v
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"checkincode": func(fl validator.FieldLevel) bool {
			return CheckInCodePattern.MatchString(fl.Field().String())
		},
		"phone": func(fl validator.FieldLevel) bool {
			return PhonePattern.MatchString(fl.Field().String())
		},
		"clubrole": func(fl validator.FieldLevel) bool {
			return domain.ClubRole(fl.Field().String()).Valid()
		},
		"teamrole": func(fl validator.FieldLevel) bool {
			return domain.TeamRole(fl.Field().String()).Valid()
		},
		"regrole": func(fl validator.FieldLevel) bool {
			return domain.RegistrationRole(fl.Field().String()).Valid()
		},
		// halfhours accepts positive multiples of 0.5
		"halfhours": func(fl validator.FieldLevel) bool {
			h := fl.Field().Float()
			return h > 0 && math.Mod(h*2, 1) == 0
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Message renders a validator error into a human readable sentence
func Message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "checkincode":
		return e.Field() + " must be a 6 character code"
	case "phone":
		return e.Field() + " must be a valid phone number"
	case "clubrole":
		return e.Field() + " must be a valid club role"
	case "teamrole":
		return e.Field() + " must be leader or member"
	case "regrole":
		return e.Field() + " must be attendee or organizer"
	case "halfhours":
		return e.Field() + " must be a positive multiple of 0.5"
	case "gtfield":
		return e.Field() + " must be after " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
