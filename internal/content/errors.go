package content

import "errors"

var (
	ErrProviderUnavailable = errors.New("content provider unavailable")
	ErrInferenceTimeout    = errors.New("content generation timeout")
	ErrInvalidContent      = errors.New("generator returned invalid content")
)
