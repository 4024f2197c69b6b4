// Package utils provides shared error-wrapping and environment-variable
// helpers used by pkg/config. Domain-independent by design: an
// Ark's cryptographic lifecycle lives entirely in package core.
package utils

import "fmt"

// Wrap adds context to an error message. It returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
