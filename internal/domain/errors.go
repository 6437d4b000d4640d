package domain

import "errors"

var (
	// ErrSchemaMismatch indicates that the category sets of a rate grid and
	// a land-use record (or input column names) disagree. Fatal: detected
	// before any combinatorial expansion begins.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidInput indicates a negative, missing, or non-numeric land-use
	// value. Fatal at the watershed granularity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrZeroTotalMedian indicates a watershed whose Total Salt median is
	// zero, making percent-of-median ranking undefined for it.
	ErrZeroTotalMedian = errors.New("total salt median is zero")
)
