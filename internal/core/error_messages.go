// Package core error codes reference.
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Errors are resolved in two steps. A [*Error] from this package maps by its
// [Kind]; anything else falls back to case-insensitive pattern matching on
// the error text.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Remove unused sheets or columns and try again
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid format: File is not an Excel spreadsheet
//	          Action: Please upload an Excel file (.xlsx or .xls)
//	          Kind: invalid_file_format
//
//	FILE004 - No file: No file was selected
//	          Action: Please select an enrollment spreadsheet to upload
//	          Patterns: "no file provided"
//
//	FILE006 - Unreadable file: The spreadsheet could not be read
//	          Action: Check the file is a valid Excel workbook and re-save it
//	          Kind: parse_failure
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Missing column: Required columns are missing from the spreadsheet
//	         Action: Check that all required columns are present in your file
//	         Kind: schema_validation_failed
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Nothing to export: No records match the current selection
//	         Action: Select a subject or clear the search
//	         Kind: empty_export_set
//
//	EXP002 - Unsupported format: Export format is not supported
//	         Action: Choose xlsx, csv or pdf
//	         Kind: unsupported_export_format
//
//	EXP003 - Invalid sheet name: Two subjects produce the same sheet name
//	         Action: Export the affected subjects individually
//	         Kind: invalid_sheet_name
//
// # Data Errors (DATA001-DATA099)
//
//	DATA001 - No data: No enrollment file has been loaded
//	          Action: Please upload an enrollment file first
//	          Kind: no_data_loaded
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Try uploading a smaller file or check your connection
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Audit Storage Errors (DB001-DB099)
//
//	DB004 - Connection refused: Unable to reach the audit database
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated kind or patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// kindMessages maps core error kinds to user messages.
var kindMessages = map[Kind]UserMessage{
	KindInvalidFileFormat: {
		Message: "Invalid file format",
		Action:  "Please upload an Excel file (.xlsx or .xls)",
		Code:    "FILE002",
	},
	KindParseFailure: {
		Message: "The spreadsheet could not be read",
		Action:  "Check the file is a valid Excel workbook and re-save it",
		Code:    "FILE006",
	},
	KindSchemaValidation: {
		Message: "Required columns are missing from the spreadsheet",
		Action:  "Check that all required columns are present in your file",
		Code:    "VAL004",
	},
	KindEmptyExport: {
		Message: "No data to export",
		Action:  "Select a subject or clear the search",
		Code:    "EXP001",
	},
	KindUnsupportedFormat: {
		Message: "Export format is not supported",
		Action:  "Choose xlsx, csv or pdf",
		Code:    "EXP002",
	},
	KindInvalidSheetName: {
		Message: "Two subjects produce the same sheet name",
		Action:  "Export the affected subjects individually",
		Code:    "EXP003",
	},
	KindNoData: {
		Message: "No data available",
		Action:  "Please upload an enrollment file first",
		Code:    "DATA001",
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or columns and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or columns and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select an enrollment spreadsheet to upload",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Request Errors
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// =========================================================================
	// Audit Storage Errors
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the audit database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},

	// =========================================================================
	// Rate Limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message. Core errors map by
// kind; other errors are matched against known patterns (case-insensitive).
// If nothing matches, a generic fallback with code ERR000 is returned.
//
// Example:
//
//	msg := MapError(&Error{Kind: KindEmptyExport})
//	// msg.Code == "EXP001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := kindMessages[KindOf(err)]; ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
