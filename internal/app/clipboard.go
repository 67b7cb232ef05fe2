package app

import "github.com/atotto/clipboard"

type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SystemClipboard writes to the OS clipboard.
func SystemClipboard() Clipboard {
	return systemClipboard{}
}
