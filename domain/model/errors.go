// Package model provides the domain model for textimport.
package model

import "errors"

var (
	// ErrEmptyFile is returned when the selected file contains no lines at all.
	ErrEmptyFile = errors.New("file is empty")

	// ErrLineTooLong is returned when a line exceeds the maximum acceptable
	// length, which means the file does not appear to be a text file.
	ErrLineTooLong = errors.New("line too long: not a text file")

	// ErrUnknownEncoding is returned when an explicitly requested character
	// encoding is not recognized.
	ErrUnknownEncoding = errors.New("unknown character encoding")

	// ErrRowOutOfRange is returned when a case index is outside the readable range.
	ErrRowOutOfRange = errors.New("row index out of range")
)
