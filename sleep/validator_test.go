package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecord = `{
	"id": 1,
	"start": "2016-11-01T23:00:00-05:00",
	"end": "2016-11-02T07:05:00-05:00",
	"numberOfInteruptions": 1,
	"comment": ""
}`

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.Validate([]byte(validRecord)))
	assert.Empty(t, v.Errors())
}

func TestValidator_BadStartFormat(t *testing.T) {
	v := NewValidator()

	ok := v.Validate([]byte(`{
		"id": 1,
		"start": "2016-1-01T23:00:00-05:00",
		"end": "2016-11-02T07:05:00-05:00",
		"numberOfInteruptions": 1,
		"comment": ""
	}`))

	assert.False(t, ok)
	errs := v.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, ".start", errs[0].DataPath)
}

func TestValidator_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		paths []string
	}{
		{
			name:  "not an object",
			input: `[1, 2]`,
			paths: []string{""},
		},
		{
			name:  "missing end",
			input: `{"id": 1, "start": "2016-11-01T23:00:00-05:00", "numberOfInteruptions": 0}`,
			paths: []string{""},
		},
		{
			name:  "id as string",
			input: `{"id": "1", "start": "2016-11-01T23:00:00-05:00", "end": "2016-11-02T07:05:00-05:00", "numberOfInteruptions": 0}`,
			paths: []string{".id"},
		},
		{
			name:  "fractional interruptions",
			input: `{"id": 1, "start": "2016-11-01T23:00:00-05:00", "end": "2016-11-02T07:05:00-05:00", "numberOfInteruptions": 1.5}`,
			paths: []string{".numberOfInteruptions"},
		},
		{
			name:  "negative interruptions",
			input: `{"id": 1, "start": "2016-11-01T23:00:00-05:00", "end": "2016-11-02T07:05:00-05:00", "numberOfInteruptions": -2}`,
			paths: []string{".numberOfInteruptions"},
		},
		{
			name:  "end before start",
			input: `{"id": 1, "start": "2016-11-02T23:00:00-05:00", "end": "2016-11-02T07:05:00-05:00", "numberOfInteruptions": 0}`,
			paths: []string{".end"},
		},
		{
			name:  "comment not a string",
			input: `{"id": 1, "start": "2016-11-01T23:00:00-05:00", "end": "2016-11-02T07:05:00-05:00", "numberOfInteruptions": 0, "comment": 3}`,
			paths: []string{".comment"},
		},
		{
			name:  "both dates broken",
			input: `{"id": 1, "start": "yesterday", "end": "today", "numberOfInteruptions": 0}`,
			paths: []string{".start", ".end"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			assert.False(t, v.Validate([]byte(tt.input)))

			var paths []string
			for _, e := range v.Errors() {
				paths = append(paths, e.DataPath)
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}

func TestValidator_ErrorsResetBetweenCalls(t *testing.T) {
	v := NewValidator()
	require.False(t, v.Validate([]byte(`{}`)))
	require.NotEmpty(t, v.Errors())

	assert.True(t, v.Validate([]byte(validRecord)))
	assert.Empty(t, v.Errors())
}

func TestParse(t *testing.T) {
	rec, err := Parse([]byte(validRecord))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, 1, rec.NumberOfInterruptions)

	d, err := rec.Duration()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour+5*time.Minute, d)

	_, err = Parse([]byte(`{"id": 1}`))
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestRecord_Validate(t *testing.T) {
	rec := Record{ID: 2, Start: "2016-11-01T23:00:00Z", End: "2016-11-02T06:00:00Z"}
	assert.NoError(t, rec.Validate())

	rec.End = "2016-11-01T22:00:00Z"
	assert.ErrorIs(t, rec.Validate(), ErrInvalidRecord)
}
