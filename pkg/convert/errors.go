package convert

import (
	"errors"
	"fmt"

	"pdf-toolbox-bot/pkg/session"
)

var (
	ErrNoOutput       = errors.New("conversion produced no output")
	ErrNoText         = errors.New("no text found")
	ErrNoImages       = errors.New("no images found")
	ErrAllPages       = errors.New("cannot remove every page")
	ErrMissingInput   = errors.New("missing input")
	ErrNoRoute        = errors.New("no conversion for feature")
	ErrOCRUnavailable = errors.New("ocr engine not configured")
	ErrWrongPassword  = errors.New("wrong password")
	ErrNotEncrypted   = errors.New("file is not encrypted")
)

// ExternalConversionError wraps a failure of a delegated library or binary.
type ExternalConversionError struct {
	Feature session.Feature
	Tool    string
	Cause   error
}

func (e *ExternalConversionError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("convert %s via %s: %v", e.Feature, e.Tool, e.Cause)
	}
	return fmt.Sprintf("convert %s: %v", e.Feature, e.Cause)
}

func (e *ExternalConversionError) Unwrap() error { return e.Cause }

// toolError tags err with the tool that produced it, so Run can report it.
type toolError struct {
	tool string
	err  error
}

func (e *toolError) Error() string { return e.tool + ": " + e.err.Error() }
func (e *toolError) Unwrap() error { return e.err }

func withTool(tool string, err error) error {
	if err == nil {
		return nil
	}
	return &toolError{tool: tool, err: err}
}
