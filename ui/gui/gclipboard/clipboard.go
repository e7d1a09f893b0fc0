package gclipboard

import "github.com/atotto/clipboard"

func WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

func Unsupported() bool {
	return clipboard.Unsupported
}
