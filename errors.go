package ragpipe

import "errors"

// ErrNoInput is returned when the input directory contains no HTML files.
var ErrNoInput = errors.New("ragpipe: no input files")

// ErrTooLarge is returned when a file exceeds the configured size limit.
var ErrTooLarge = errors.New("ragpipe: file too large")
