package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrChatNotFound = errors.New("chat not found")
	ErrNotPDF       = errors.New("only PDF files are allowed")
	ErrNoText       = errors.New("pdf contains no extractable text")
)
