package report

import (
	"strings"

	"github.com/devicelab-dev/suite-reporter/pkg/event"
)

// fallbackMessage is used when an error carries no usable text at all.
const fallbackMessage = "Error"

// genericStrings are stringifications that say nothing about the failure.
var genericStrings = map[string]bool{
	"[object Error]":  true,
	"[object Object]": true,
	"Error":           true,
}

// FailureMessage derives the display string for a failed test's error.
//
// The stack is preferred, then the error's own string form, then the message.
// The message is prepended when the stack does not already contain it. A
// generic stringification falls back to the bare message. Without a stack, a
// known source location is appended as "(file:line)". The result is never empty.
func FailureMessage(err *event.TestError) string {
	if err == nil {
		return fallbackMessage
	}

	str := err.Stack
	if str == "" {
		str = err.String
	}
	// Generic strings are dropped before the message is prepended, so they
	// never reach the output.
	if str == "" || genericStrings[str] {
		str = err.Message
	}
	if !strings.Contains(str, err.Message) {
		str = err.Message + "\n" + str
	}
	if err.Stack == "" && err.Source != nil && err.Source.File != "" {
		loc := "(" + err.Source.String() + ")"
		if str == "" {
			str = loc
		} else {
			str += "\n" + loc
		}
	}
	if str == "" {
		return fallbackMessage
	}
	return str
}
