package importer

// errors.go defines the structural-error type and the user-facing error
// mapping consumed by the web layer.
//
// The engine distinguishes two error classes:
//   - Structural errors abort the entire import before any row is
//     processed (unreadable file, no header row, required field with no
//     resolvable column). They surface as a single *StructuralError.
//   - Row errors never propagate as errors; they are data, aggregated
//     into ImportResult.Errors so partial progress is never lost.

import "strings"

// Structural error codes.
const (
	CodeUnreadable     = "FILE001" // file could not be parsed as CSV
	CodeNoHeader       = "FILE002" // file empty or header row missing
	CodeMissingColumns = "VAL001"  // required field has no resolvable column
	CodeUnknownType    = "IMP001"  // import type not registered
)

// StructuralError aborts an entire import run. Details carries the
// individual problems when there is more than one (e.g. every missing
// required field).
type StructuralError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *StructuralError) Error() string {
	if len(e.Details) > 0 {
		return e.Message + ": " + strings.Join(e.Details, ", ")
	}
	return e.Message
}

// UserMessage is a user-friendly rendering of an error, with a stable
// code users can quote to support staff.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern maps an error-text substring to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is checked in order; the first matching pattern wins.
var errorPatterns = []errorPattern{
	// Database errors
	{"duplicate key", UserMessage{
		Message: "A record with this key already exists",
		Action:  "Review the rejected rows for duplicates",
		Code:    "DB001",
	}},
	{"violates foreign key", UserMessage{
		Message: "A referenced record does not exist",
		Action:  "Import employees before their policies",
		Code:    "DB002",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to reach the database",
		Action:  "Please try again in a few moments",
		Code:    "DB003",
	}},
	{"timeout", UserMessage{
		Message: "The operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB004",
	}},

	// File errors
	{"cannot read file", UserMessage{
		Message: "The file could not be read as CSV",
		Action:  "Ensure the file is comma-separated and saved as UTF-8",
		Code:    CodeUnreadable,
	}},
	{"no header row", UserMessage{
		Message: "The file has no header row",
		Action:  "The first line must contain column headings",
		Code:    CodeNoHeader,
	}},
	{"file too large", UserMessage{
		Message: "The file exceeds the size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE003",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Choose a CSV file to import",
		Code:    "FILE004",
	}},

	// Validation errors
	{"missing required fields", UserMessage{
		Message: "Required columns are missing from the file",
		Action:  "Download the template and match its headings",
		Code:    CodeMissingColumns,
	}},
	{"unknown import type", UserMessage{
		Message: "The requested import type does not exist",
		Action:  "Use one of the listed import types",
		Code:    CodeUnknownType,
	}},
}

var defaultMessage = UserMessage{
	Message: "Something went wrong processing the import",
	Action:  "Please try again; contact support if the problem persists",
	Code:    "GEN001",
}

// MapError converts any error into a user-friendly message.
// Structural errors map by code; everything else by substring pattern.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if se, ok := err.(*StructuralError); ok {
		for _, ep := range errorPatterns {
			if ep.msg.Code == se.Code {
				msg := ep.msg
				if len(se.Details) > 0 {
					msg.Message = msg.Message + ": " + strings.Join(se.Details, ", ")
				}
				return msg
			}
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
