package lazy

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every panic raised while declaring a
	// pipeline with a bad argument (nil callback, bad size or step).
	ErrInvalidArgument = errors.New("lazy: invalid argument")

	// ErrInvalidChunkSize is raised by Chunk when size <= 0.
	ErrInvalidChunkSize = fmt.Errorf("%w: chunk size must be greater than 0", ErrInvalidArgument)

	// ErrInvalidStep is raised by Range when step is 0.
	ErrInvalidStep = fmt.Errorf("%w: range step must not be 0", ErrInvalidArgument)
)

func mustFunc(ok bool, method string) {
	if !ok {
		panic(fmt.Errorf("%w: nil callback passed to %s", ErrInvalidArgument, method))
	}
}
