package repository

import "errors"

// ErrIncompletePair indicates a write was attempted with only one of the two
// credentials. The pair is replaced as a whole or not at all.
var ErrIncompletePair = errors.New("repository: credential pair must be set as a whole")
