package models

import "fmt"

// ConfigError reports a missing configuration sheet, unusable configuration
// rows or invalid run parameters. It aborts the run.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// MessageConversionError reports a failed body-to-PDF rendering of one message
type MessageConversionError struct {
	MessageID string
	Err       error
}

func (e *MessageConversionError) Error() string { return e.Err.Error() }

func (e *MessageConversionError) Unwrap() error { return e.Err }

// AttachmentSaveError reports a failure persisting one attachment
type AttachmentSaveError struct {
	MessageID  string
	Attachment string
	Err        error
}

func (e *AttachmentSaveError) Error() string { return e.Err.Error() }

func (e *AttachmentSaveError) Unwrap() error { return e.Err }

// TitleProcessingError reports any other failure while handling one configured title
type TitleProcessingError struct {
	Title string
	Err   error
}

func (e *TitleProcessingError) Error() string { return e.Err.Error() }

func (e *TitleProcessingError) Unwrap() error { return e.Err }

// FatalError is anything that escapes the per-item isolation, e.g. an
// inaccessible storage folder or a log sheet that can no longer be written.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return "fatal: " + e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }
