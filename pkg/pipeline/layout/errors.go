package layout

import "github.com/pkg/errors"

var (
	ErrInvalidName         = errors.New("invalid name")
	ErrInvalidPort         = errors.New("invalid port")
	ErrPortNotFound        = errors.New("port not found")
	ErrElementNotFound     = errors.New("element not found")
	ErrWrongKind           = errors.New("wrong element kind")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrDuplicateConnection = errors.New("duplicate connection")
	ErrSelfBoundary        = errors.New("connection between the pipeline's own boundary ports")
	ErrUnresolvedPort      = errors.New("unresolved port")
)
