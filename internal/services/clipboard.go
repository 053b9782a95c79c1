package services

import "context"

type noopClipboard struct{}

// NewNoopClipboard returns a clipboard that accepts every write. The copy text
// still travels back to the caller, which owns the real clipboard.
func NewNoopClipboard() Clipboard {
	return noopClipboard{}
}

func (noopClipboard) Write(context.Context, string) error { return nil }
