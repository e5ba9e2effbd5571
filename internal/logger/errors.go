package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Init refuses a configuration without the names every line is tagged with.
var (
	ErrAppNameIsEmpty     = errors.New("log config: AppName is required")
	ErrServiceNameIsEmpty = errors.New("log config: ServiceName is required")
)

var dropped io.Writer = os.Stderr //nolint:gochecknoglobals

// WriteFailed is installed as zerolog.ErrorHandler. It reports events the
// writers could not take.
func WriteFailed(err error) {
	_, _ = fmt.Fprintf(dropped, "clmk-site: log event dropped: %v\n", err)
}
