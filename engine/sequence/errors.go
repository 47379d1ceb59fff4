package sequence

import "errors"

var (
	// ErrNotInitialized is returned by Tick and Advance before a successful Initialize.
	ErrNotInitialized = errors.New("sequence not initialized")

	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("sequence already initialized")

	// ErrNoUploader is returned by Initialize when the sequence has no mesh.Uploader.
	ErrNoUploader = errors.New("sequence has no uploader")
)
