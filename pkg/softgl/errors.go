package softgl

import "github.com/pkg/errors"

var (
	ErrUnknownKernel   = errors.New("unknown kernel")
	ErrDuplicateKernel = errors.New("kernel already registered")
	ErrForeignResource = errors.New("resource not created by softgl")
	ErrReleased        = errors.New("resource released")
	ErrFeedbackLoop    = errors.New("texture is both read and written by the same pass")
	ErrPort            = errors.New("invalid port")
	ErrKernelFailed    = errors.New("kernel failed")
)
