package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ReservedUsername cannot be registered because /users/me/ shadows it.
const ReservedUsername = "me"

func ValidUsername(s string) bool { return usernameRe.MatchString(s) }

func ValidSlug(s string) bool { return slugRe.MatchString(s) }

func IsReservedUsername(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), ReservedUsername)
}

// Rule sets shared by request binding tags and service-side checks.
const (
	UsernameRules = "required,max=150,username,not_me"
	EmailRules    = "required,max=254,email"
	SlugRules     = "required,max=50,slug"
	YearRules     = "gte=0,past_year"
)

// Now is swapped in tests that pin the current year.
var Now = time.Now

var registerOnce sync.Once

// Register installs the custom tags on gin's default validator. Safe to call repeatedly.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// checker reads `binding` tags like gin does, so request structs and service
// inputs share one set of rules.
var checker = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterOn(v); err != nil {
		panic(err)
	}
	return v
}()

// Check validates s against its `binding` tags. It returns nil when s is valid.
func Check(s any) map[string]string {
	return Fields(checker.Struct(s))
}

// Var validates a single value against tag and returns the first failure
// message, or "" when v passes.
func Var(v any, tag string) string {
	var verrs validator.ValidationErrors
	if errors.As(checker.Var(v, tag), &verrs) && len(verrs) > 0 {
		return message(verrs[0])
	}
	return ""
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	rules := map[string]validator.Func{
		"username": func(fl validator.FieldLevel) bool {
			return ValidUsername(fl.Field().String())
		},
		"not_me": func(fl validator.FieldLevel) bool {
			return !IsReservedUsername(fl.Field().String())
		},
		"slug": func(fl validator.FieldLevel) bool {
			return ValidSlug(fl.Field().String())
		},
		"past_year": func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(Now().Year())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// Fields flattens validator errors into field -> message.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this value is at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "username":
		return "letters, digits and @/./+/-/_ only"
	case "not_me":
		return fmt.Sprintf("%q is not a valid username", ReservedUsername)
	case "slug":
		return "letters, digits, hyphens and underscores only"
	case "past_year":
		return "year cannot be in the future"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
