package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxFormMemory = 10 << 20

var errBadID = errors.New("invalid id")

// flexInt accepts a JSON number, a numeric string or an empty string.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		*n = flexInt(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormMemory))
	return dec.Decode(v)
}

// form is a parsed multipart or urlencoded body. Only keys present in the
// request are applied.
type form struct {
	values url.Values
	files  map[string]string
}

func readForm(r *http.Request) (form, error) {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return form{}, err
	}

	f := form{values: r.Form, files: map[string]string{}}
	if r.MultipartForm != nil {
		for field, headers := range r.MultipartForm.File {
			if len(headers) > 0 {
				f.files[field] = headers[0].Filename
			}
		}
	}
	return f, nil
}

func (f form) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f form) get(key string) string {
	return strings.TrimSpace(f.values.Get(key))
}

func (f form) set(dst *string, key string) {
	if f.has(key) {
		*dst = f.get(key)
	}
}

// setInt parses key into dst and records a message in bad when it is not a
// positive integer.
func (f form) setInt(dst *int64, key string, bad map[string][]string) {
	if !f.has(key) {
		return
	}
	v, err := strconv.ParseInt(f.get(key), 10, 64)
	if err != nil || v <= 0 {
		bad[key] = append(bad[key], key+" must be a positive number")
		return
	}
	*dst = v
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors turns validator output into field -> messages. Other errors
// are reported under "body".
func fieldErrors(err error) map[string][]string {
	out := map[string][]string{}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["body"] = []string{err.Error()}
		return out
	}

	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email address"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "datetime":
		return f + " must be a date (YYYY-MM-DD)"
	}
	return f + " is invalid"
}
