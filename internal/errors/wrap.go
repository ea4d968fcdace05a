package errors

import (
	"errors"
	"fmt"
)

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, so it is safe to use inline:
//
//	if err := extract(path); err != nil {
//	    return errors.Wrap(err, "extract template")
//	}
//
// The chain is preserved, so errors.Is(err, errors.ErrFilesystem) still matches.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
//
//	return errors.Wrapf(err, "failed to extract %s", archivePath)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Tag marks err with a sentinel category without losing its own chain.
// Both errors.Is(result, sentinel) and errors.Is(result, <cause>) hold.
func Tag(err, sentinel error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Degraded tags err as a non-fatal failure. See ErrDegraded.
func Degraded(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrDegraded, err)
}
