// Package llmjson turns free-text model output into validated structs.
//
// Model replies are expected to contain one JSON object, optionally wrapped in
// markdown fences or surrounded by prose. Decoding is two steps: extract and
// unmarshal (failure is ErrMalformed), then validate the declared shape
// (failure is ErrIncomplete).
package llmjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"simplyskin/platform/validator"
)

var (
	// ErrMalformed means the reply holds no parseable JSON object.
	ErrMalformed = errors.New("malformed json")
	// ErrIncomplete means the JSON parsed but required fields are missing or out of range.
	ErrIncomplete = errors.New("incomplete response")
)

// DecodeError describes why a reply could not be decoded.
type DecodeError struct {
	Kind   error
	Fields []string
	Raw    string
	Err    error
}

func (e *DecodeError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%v: %s", e.Kind, strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Is matches ErrMalformed or ErrIncomplete.
func (e *DecodeError) Is(target error) bool { return target == e.Kind }

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode extracts the JSON object from raw, unmarshals it into T and validates it.
func Decode[T any](raw string, v *validator.Validator) (*T, error) {
	object, err := ExtractObject(raw)
	if err != nil {
		return nil, &DecodeError{Kind: ErrMalformed, Raw: raw, Err: err}
	}

	var out T
	if err := json.Unmarshal([]byte(object), &out); err != nil {
		return nil, &DecodeError{Kind: ErrMalformed, Raw: raw, Err: err}
	}

	if v != nil {
		if err := v.Struct(&out); err != nil {
			fields := make([]string, 0)
			for _, fe := range validator.Fields(err) {
				fields = append(fields, fe.Field)
			}
			return nil, &DecodeError{Kind: ErrIncomplete, Fields: fields, Raw: raw, Err: err}
		}
	}
	return &out, nil
}

// StripFences removes a surrounding ```json ... ``` block if present.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	body := s[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// ExtractObject returns the first balanced top-level JSON object in raw. A
// fenced block is preferred; when it holds no object the whole reply is
// scanned.
func ExtractObject(raw string) (string, error) {
	if fenced := StripFences(raw); fenced != strings.TrimSpace(raw) {
		if object, err := scanObject(fenced); err == nil {
			return object, nil
		}
	}
	return scanObject(strings.TrimSpace(raw))
}

func scanObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errors.New("no json object found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errors.New("unterminated json object")
}

// Score is a number the model may emit as a JSON number or numeric string.
type Score float64

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("score %q is not a number", str)
		}
		*s = Score(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// Strings is a list that decodes null or a single string into a slice.
type Strings []string

func (l *Strings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = Strings{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = Strings{single}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = Strings(items)
	return nil
}

// Values returns a non-nil slice with blank entries removed.
func (l Strings) Values() []string {
	out := make([]string, 0, len(l))
	for _, item := range l {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
