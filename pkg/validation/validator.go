package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine returns the validator used for `validate:"..."` rules.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		configure(engine)
	})
	return engine
}

// Init configures the global validator used by Gin's binding (query/form
// structs with `binding` tags) the same way as Engine.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
	Engine()
}

// configure makes errors report JSON tag names and registers alias tags.
func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	v.RegisterAlias("pwd", "min=6,max=128")
	v.RegisterAlias("personname", "min=2,max=50")
	v.RegisterAlias("taskstatus", "oneof=pending completed")
}

// FieldError is a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// FieldErrors aggregates every violation found in one payload.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// Result is either a normalized value (Errors empty) or the list of violations.
type Result[T any] struct {
	Value  T
	Errors FieldErrors
}

func (r Result[T]) OK() bool { return len(r.Errors) == 0 }

// Check normalizes v according to its `mod` tags and validates it.
func Check[T any](v T) Result[T] {
	Normalize(&v)
	if err := Engine().Struct(v); err != nil {
		return Result[T]{Value: v, Errors: ToFieldErrors(err)}
	}
	return Result[T]{Value: v}
}

// Bind decodes the JSON body into T, then runs Check. Unknown fields are ignored.
func Bind[T any](c *gin.Context) Result[T] {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		return Result[T]{Value: v, Errors: ToFieldErrors(err)}
	}
	return Check(v)
}

// Normalize applies `mod:"trim,lower"` rules to string and *string fields of
// the struct pointed to by ptr.
func Normalize(ptr any) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			Normalize(fv.Addr().Interface())
			continue
		}
		mods := sf.Tag.Get("mod")
		if mods == "" {
			continue
		}
		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(applyMods(fv.String(), mods))
		case fv.Kind() == reflect.Pointer && !fv.IsNil() && fv.Elem().Kind() == reflect.String:
			fv.Elem().SetString(applyMods(fv.Elem().String(), mods))
		}
	}
}

func applyMods(s, mods string) string {
	for _, m := range strings.Split(mods, ",") {
		switch strings.TrimSpace(m) {
		case "trim":
			s = strings.TrimSpace(s)
		case "lower":
			s = strings.ToLower(s)
		}
	}
	return s
}

// ToFieldErrors converts binding/validation errors into field-level messages,
// one per violated field.
func ToFieldErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}

	var fes FieldErrors
	if errors.As(err, &fes) {
		return fes
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(FieldErrors, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
		return out
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return FieldErrors{{Field: ute.Field, Message: "must be a " + jsonKind(ute.Type)}}
	}

	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return FieldErrors{{Field: "payload", Message: "is too large"}}
	case errors.Is(err, io.EOF):
		return FieldErrors{{Field: "payload", Message: "is required"}}
	}

	var se *json.SyntaxError
	if errors.As(err, &se) || errors.Is(err, io.ErrUnexpectedEOF) {
		return FieldErrors{{Field: "payload", Message: "must be valid JSON"}}
	}

	return FieldErrors{{Field: "payload", Message: "is invalid"}}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	default:
		return "object"
	}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()
	if kind == reflect.Pointer {
		kind = fe.Type().Elem().Kind()
	}

	switch tag {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + param + " is present"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "lowercase":
		return "must be in lowercase"
	case "containsany":
		return "must contain at least one of '" + param + "'"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "eqfield":
		return "must be equal to " + param + " field"
	case "nefield":
		return "must not be equal to " + param + " field"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "pwd":
		return "must be between 6 and 128 characters long"
	case "personname":
		return "must be between 2 and 50 characters long"
	case "taskstatus":
		return "must be pending or completed"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
