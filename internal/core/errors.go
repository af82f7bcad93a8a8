package core

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrEmptyQuestion       = errors.New("question is empty")
	ErrRequestPending      = errors.New("a request is already in progress")
	ErrGenerationFailed    = errors.New("generation failed")
)

const unsupportedFileMessage = "Unsupported file type. Please upload an image or a PDF."
