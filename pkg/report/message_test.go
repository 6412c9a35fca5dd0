package report

import (
	"testing"

	"github.com/devicelab-dev/suite-reporter/pkg/event"
	"github.com/stretchr/testify/assert"
)

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *event.TestError
		want string
	}{
		{
			name: "stack containing message is used unchanged",
			err:  &event.TestError{Message: "boom", Stack: "Error: boom\n  at f (x.js:1)"},
			want: "Error: boom\n  at f (x.js:1)",
		},
		{
			name: "stack without message gets it prepended",
			err:  &event.TestError{Message: "boom", Stack: "  at f (x.js:1)"},
			want: "boom\n  at f (x.js:1)",
		},
		{
			name: "no stack with source location",
			err:  &event.TestError{Message: "boom", Source: &event.SourceLocation{File: "x.js", Line: 5}},
			want: "boom\n(x.js:5)",
		},
		{
			name: "location alone when message is empty",
			err:  &event.TestError{Source: &event.SourceLocation{File: "x.js", Line: 0}},
			want: "(x.js:0)",
		},
		{
			name: "no stack no location",
			err:  &event.TestError{Message: "boom"},
			want: "boom",
		},
		{
			name: "string form used when stack is missing",
			err:  &event.TestError{Message: "boom", String: "AssertionError: boom"},
			want: "AssertionError: boom",
		},
		{
			name: "string form with location",
			err:  &event.TestError{Message: "boom", String: "Error: boom", Source: &event.SourceLocation{File: "x.js", Line: 5}},
			want: "Error: boom\n(x.js:5)",
		},
		{
			name: "generic stringification falls back to message",
			err:  &event.TestError{Message: "boom", String: "[object Error]"},
			want: "boom",
		},
		{
			name: "generic stack falls back to message",
			err:  &event.TestError{Message: "boom", Stack: "[object Object]"},
			want: "boom",
		},
		{
			name: "location ignored when stack present",
			err:  &event.TestError{Message: "boom", Stack: "boom at x", Source: &event.SourceLocation{File: "x.js", Line: 5}},
			want: "boom at x",
		},
		{
			name: "location without file ignored",
			err:  &event.TestError{Message: "boom", Source: &event.SourceLocation{Line: 5}},
			want: "boom",
		},
		{
			name: "empty message with stack",
			err:  &event.TestError{Stack: "at f"},
			want: "at f",
		},
		{
			name: "everything empty",
			err:  &event.TestError{},
			want: "Error",
		},
		{
			name: "nil error",
			err:  nil,
			want: "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FailureMessage(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}
