// Package errors provides error handling for gpsdio-vector.
//
// This package re-exports github.com/cockroachdb/errors and adds the
// sentinel errors shared by the schema, vector, driver and plugin packages.
//
// Usage:
//
//	if err := stream.Write(f); err != nil {
//	    return errors.Wrapf(err, "write %s", path)
//	}
//
//	if errors.Is(err, errors.ErrMalformedField) {
//	    // configuration problem, nothing was written
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
	CombineErrors  = crdb.CombineErrors
)

// Configuration errors. These are returned before any output is opened.
var (
	// ErrInvalidDestination indicates the output target is not a usable path
	ErrInvalidDestination = New("invalid destination")

	// ErrMalformedField indicates a field token could not be parsed as name:definition
	ErrMalformedField = New("malformed field definition")

	// ErrUnsupportedFieldSpec indicates the fields option has an unsupported shape
	ErrUnsupportedFieldSpec = New("unsupported field specification")

	// ErrInvalidFieldDefinition indicates a definition with an unknown type or bad width
	ErrInvalidFieldDefinition = New("invalid field definition")

	// ErrUnsupportedMode indicates a driver was opened in a mode it does not support
	ErrUnsupportedMode = New("unsupported mode")

	// ErrInvalidOption indicates an unknown driver option or a value of the wrong type
	ErrInvalidOption = New("invalid driver option")

	// ErrInvalidCRS indicates a CRS descriptor that could not be parsed
	ErrInvalidCRS = New("invalid crs")
)

// I/O and state errors.
var (
	// ErrUnsupportedFormat indicates the vector layer has no backend for a format
	ErrUnsupportedFormat = New("unsupported vector format")

	// ErrSchemaMismatch indicates a record that does not match the collection schema
	ErrSchemaMismatch = New("record does not match collection schema")

	// ErrGeometryMismatch indicates a geometry type other than the collection's
	ErrGeometryMismatch = New("geometry type does not match collection schema")

	// ErrClosed indicates use of a driver or collection after Close
	ErrClosed = New("already closed")

	// ErrInvalidCoordinate indicates a lon/lat value that is present but not numeric
	ErrInvalidCoordinate = New("invalid coordinate")

	// ErrIncompleteVertex indicates a track vertex with a missing ordinate
	ErrIncompleteVertex = New("incomplete vertex")
)

// IsConfigError reports whether err is one of the configuration errors
// raised before any output is opened.
func IsConfigError(err error) bool {
	return err != nil && IsAny(err,
		ErrInvalidDestination,
		ErrMalformedField,
		ErrUnsupportedFieldSpec,
		ErrInvalidFieldDefinition,
		ErrUnsupportedMode,
		ErrInvalidOption,
		ErrInvalidCRS,
	)
}
