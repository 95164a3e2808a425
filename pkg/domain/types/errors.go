package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNetwork is returned when the release query or the download transfer fails.
	ErrNetwork = goerr.New("network error")

	// ErrExtraction is returned when the downloaded archive cannot be unpacked.
	ErrExtraction = goerr.New("extraction error")

	// ErrPayloadNotFound is returned when no directory of the extracted tree holds the payload marker.
	ErrPayloadNotFound = goerr.New("payload root not found")

	// ErrInstall is returned when copying the payload into the game directory fails.
	ErrInstall = goerr.New("install error")

	// ErrUsage is returned when an operation is called without its preconditions.
	// Nothing has been modified when it is returned.
	ErrUsage = goerr.New("usage error")

	// ErrDownloadInProgress is returned when a download is requested while another one runs.
	ErrDownloadInProgress = goerr.New("download already in progress")
)

type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string   { return e.cause.Error() }
func (e *kindError) Unwrap() []error { return []error{e.kind, e.cause} }

// WithKind marks cause as an error of kind. The message is the one of cause and
// errors.Is matches both kind and cause.
func WithKind(cause, kind error) error {
	if cause == nil {
		return kind
	}
	return &kindError{kind: kind, cause: cause}
}
