package sleep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ValidationError locates one problem in a record. DataPath uses the ".field" notation.
type ValidationError struct {
	DataPath string
	Message  string
}

func (e ValidationError) Error() string {
	return e.DataPath + " " + e.Message
}

type fieldKind int

const (
	kindInteger fieldKind = iota
	kindString
	kindDateTime
)

var fields = []struct {
	name     string
	kind     fieldKind
	required bool
}{
	{"id", kindInteger, true},
	{"start", kindDateTime, true},
	{"end", kindDateTime, true},
	{"numberOfInteruptions", kindInteger, true},
	{"comment", kindString, false},
}

// Validator checks sleep record JSON. The errors of the last call to Validate
// are kept until the next call; a Validator must not be shared between goroutines.
type Validator struct {
	errors []ValidationError
}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate reports whether raw is a valid sleep record.
func (v *Validator) Validate(raw []byte) bool {
	v.errors = v.errors[:0]

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		v.fail("", "should be object")
		return false
	}

	for _, f := range fields {
		val, ok := doc[f.name]
		if !ok {
			if f.required {
				v.fail("", fmt.Sprintf("should have required property '%s'", f.name))
			}
			continue
		}
		v.checkField("."+f.name, f.kind, val)
	}

	if len(v.errors) > 0 {
		return false
	}

	start, _ := time.Parse(time.RFC3339, doc["start"].(string))
	end, _ := time.Parse(time.RFC3339, doc["end"].(string))
	if end.Before(start) {
		v.fail(".end", "should not be before start")
	}

	if n, _ := doc["numberOfInteruptions"].(json.Number).Int64(); n < 0 {
		v.fail(".numberOfInteruptions", "should be >= 0")
	}

	return len(v.errors) == 0
}

// Errors returns the problems found by the last Validate call.
func (v *Validator) Errors() []ValidationError {
	return append([]ValidationError(nil), v.errors...)
}

func (v *Validator) checkField(path string, kind fieldKind, val any) {
	switch kind {
	case kindInteger:
		n, ok := val.(json.Number)
		if !ok {
			v.fail(path, "should be integer")
			return
		}
		if _, err := n.Int64(); err != nil {
			v.fail(path, "should be integer")
		}
	case kindString:
		if _, ok := val.(string); !ok {
			v.fail(path, "should be string")
		}
	case kindDateTime:
		s, ok := val.(string)
		if !ok {
			v.fail(path, "should be string")
			return
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			v.fail(path, `should match format "date-time"`)
		}
	}
}

func (v *Validator) fail(path, msg string) {
	v.errors = append(v.errors, ValidationError{DataPath: path, Message: msg})
}

// Parse validates raw and decodes it into a Record.
func Parse(raw []byte) (Record, error) {
	v := NewValidator()
	if !v.Validate(raw) {
		msgs := make([]string, 0, len(v.errors))
		for _, e := range v.errors {
			msgs = append(msgs, e.Error())
		}
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec, nil
}

// Validate checks an already decoded record.
func (r Record) Validate() error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = Parse(raw)
	return err
}
