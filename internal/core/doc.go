// Package core provides the business logic for enrollment spreadsheet uploads
// and attendance exports.
//
// This package contains all domain logic independent of any transport layer.
// It can be used by web handlers, CLI tools, or tests without modification.
//
// # Pipeline
//
// An upload flows through the package in a fixed order:
//
//  1. The file extension is checked ([ErrInvalidFileFormat])
//  2. A [Parser] turns the bytes into header-keyed rows ([ErrParseFailure])
//  3. The header row is validated against the required columns ([ValidateColumns])
//  4. A [HeaderMap] relabels every row to canonical field names
//  5. The [Store] replaces its table and recomputes the subject list
//
// Reads go through the pure functions in filter.go ([SelectSubject], [Search],
// [SearchAll]) and exports through the [Builder], which produces an [Artifact]
// for a [Renderer] to encode.
//
// # Error Handling
//
// Every failure is a [*Error] carrying a [Kind] and an optional detail
// payload. Failures never replace the loaded table. Use [MapError] to turn
// any error into a [UserMessage] with a support code.
//
// # Audit Logging
//
// The [Service] records uploads, rejected uploads and exports through an
// [AuditRecorder] with severity levels:
//
//   - Low: Exports
//   - Medium: Rejected uploads
//   - High: Successful uploads (the loaded table is replaced)
package core
