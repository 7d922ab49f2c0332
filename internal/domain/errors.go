package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrBundleMarkers = errors.New("bundle config markers missing")
)
