package backend

import "errors"

var (
	// ErrBadLabel is returned when a clicked label cannot be turned back into
	// a timestamp.
	ErrBadLabel = errors.New("unreadable label")
	// ErrNoDatasets is returned for an empty set of dataset definitions.
	ErrNoDatasets   = errors.New("no datasets defined")
	ErrInvalidColor = errors.New("invalid color")
	// ErrDuplicateName is returned when two dataset definitions share a name.
	ErrDuplicateName = errors.New("duplicate dataset name")
	// ErrDatasourceClosed is returned when definitions are loaded after the
	// datasource has stopped.
	ErrDatasourceClosed = errors.New("datasource closed")
)
