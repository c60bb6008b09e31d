// Package inputval holds the declarative validation schemas for every form
// in the app. A form struct declares its rules once in `validate` tags and
// its display name in `label`; create and edit pages share the same struct,
// so their rules cannot drift apart.
package inputval

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	vnPhoneTag  = "vnphone"
	usernameTag = "username"
	uniqueCITag = "uniqueci"
	cccdTag     = "cccd"
	objectIDTag = "objectid"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	phoneRE    = regexp.MustCompile(`^(?:\+84|0)\d{9,10}$`)
	usernameRE = regexp.MustCompile(`^[a-z0-9._]+$`)
	cccdRE     = regexp.MustCompile(`^\d{12}$`)
)

// messages are keyed by tag; {0} is the field label, {1} the rule parameter.
var messages = map[string]string{
	"required":  "{0} là bắt buộc.",
	"min":       "{0} phải có ít nhất {1} ký tự.",
	"max":       "{0} tối đa {1} ký tự.",
	"min-items": "{0} phải có ít nhất {1} mục.",
	"max-items": "{0} tối đa {1} mục.",
	"email":     "Email không hợp lệ.",
	"gt":        "{0} phải lớn hơn {1}.",
	"gte":       "{0} không được nhỏ hơn {1}.",
	"oneof":     "{0} không hợp lệ.",
	"eqfield":   "{0} không khớp.",
	"datetime":  "{0} phải có dạng YYYY-MM-DD.",
	notBlankTag: "{0} không được để trống.",
	vnPhoneTag:  "{0} không hợp lệ (bắt đầu bằng 0 hoặc +84, gồm 10–11 số).",
	usernameTag: "{0} chỉ gồm chữ thường, số, dấu chấm hoặc gạch dưới.",
	uniqueCITag: "{0} không được trùng lặp.",
	cccdTag:     "{0} phải gồm đúng 12 chữ số.",
	objectIDTag: "{0} không hợp lệ.",
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	loc := vi.New()
	uni := ut.New(loc, loc)
	translator, _ = uni.GetTranslator("vi")

	// Use the label tag in messages; fall back to the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(vnPhoneTag, vnPhone)
	_ = validate.RegisterValidation(usernameTag, username)
	_ = validate.RegisterValidation(uniqueCITag, uniqueCaseInsensitive)
	_ = validate.RegisterValidation(cccdTag, cccd)
	_ = validate.RegisterValidation(objectIDTag, objectID)

	for key, text := range messages {
		_ = translator.Add(key, text, true)
	}
	for tag := range messages {
		if strings.HasSuffix(tag, "-items") {
			continue
		}
		_ = validate.RegisterTranslation(tag, translator, func(ut.Translator) error { return nil }, translate)
	}
}

func translate(t ut.Translator, fe validator.FieldError) string {
	key := fe.Tag()
	if (key == "min" || key == "max") && (fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array) {
		key += "-items"
	}
	msg, err := t.T(key, fe.Field(), fe.Param())
	if err != nil {
		return fe.Field() + " không hợp lệ."
	}
	return msg
}

// FieldError is one failed rule, keyed by the form field name.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// Result is the outcome of validating one form.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Get returns the first message for a field, or "".
func (r *Result) Get(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Map returns field -> first message, the shape form templates consume.
func (r *Result) Map() map[string]string {
	m := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}

// Add records an error that a rule tag cannot express, such as a
// uniqueness check against the backend.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Tag: "custom", Message: message})
}

// Validate runs the struct's rules. Field keys come from the `form` tag,
// or the lowercased Go field name when there is none.
func Validate(v any) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []FieldError{{Message: "Dữ liệu không hợp lệ."}}}
	}

	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	out := Result{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   formKey(rt, fe.StructField()),
			Tag:     fe.Tag(),
			Message: fe.Translate(translator),
		})
	}
	return out
}

// formKey maps a Go field name (possibly "Items[2]") to its form key.
func formKey(rt reflect.Type, structField string) string {
	name, _, _ := strings.Cut(structField, "[")
	if rt.Kind() == reflect.Struct {
		if f, ok := rt.FieldByName(name); ok {
			if key := f.Tag.Get("form"); key != "" {
				return key
			}
		}
	}
	return strings.ToLower(name)
}

// IsValidEmail reports whether s is a plain address (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return validate.Var(s, "email") == nil
}

// IsValidPhone reports whether s is a Vietnamese phone number once
// separators are removed.
func IsValidPhone(s string) bool {
	return phoneRE.MatchString(normalize.Phone(s))
}

// IsValidObjectID reports whether s is a 24-hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// HasDuplicates reports whether items repeat after trimming and case folding.
func HasDuplicates(items []string) bool {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		key := normalize.ListItem(it)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

// Custom validators

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

// vnPhone passes empty values; combine with required when the phone is mandatory.
func vnPhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return true
	}
	return IsValidPhone(s)
}

func username(fl validator.FieldLevel) bool {
	return usernameRE.MatchString(fl.Field().String())
}

func cccd(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return s == "" || cccdRE.MatchString(s)
}

func objectID(fl validator.FieldLevel) bool {
	return IsValidObjectID(fl.Field().String())
}

func uniqueCaseInsensitive(fl validator.FieldLevel) bool {
	items, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	return !HasDuplicates(items)
}
