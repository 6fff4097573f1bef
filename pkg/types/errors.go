package types

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Binary-structure errors
// -----------------------------------------------------------------------------

// BinaryErrKind classifies what the binary was missing.
type BinaryErrKind int

const (
	ErrKindNoSentinel               BinaryErrKind = iota // no fuse sentinel in the binary
	ErrKindNoFuseVersion                                 // binary ends right after the sentinel
	ErrKindNoFuseLength                                  // binary ends right after the version byte
	ErrKindFuseDoesNotExist                              // fuse position lies outside the wire
	ErrKindUnknownFuse                                   // fuse byte is not '0', '1' or 'r'
	ErrKindNodeFlagNotPresent                            // Node.js flag pattern not found
	ErrKindElectronOptionNotPresent                      // Electron switch pattern not found
	ErrKindMessageNotPresent                             // DevTools message pattern not found
)

// BinaryError reports that the binary did not contain what an operation
// needed. Fuse and Value are set for the fuse kinds, Option for the
// not-present kinds.
type BinaryError struct {
	Kind   BinaryErrKind
	Fuse   Fuse
	Value  byte
	Option Option
}

func (e *BinaryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrKindNoSentinel:
		return "no fuse sentinel found"
	case ErrKindNoFuseVersion:
		return "fuse wire had no version present"
	case ErrKindNoFuseLength:
		return "fuse wire had no length specified"
	case ErrKindFuseDoesNotExist:
		return fmt.Sprintf("the %s fuse wasn't present", e.Fuse)
	case ErrKindUnknownFuse:
		return fmt.Sprintf("the %s fuse returned an unknown value of %q (0x%02x)", e.Fuse, rune(e.Value), e.Value)
	case ErrKindNodeFlagNotPresent:
		return fmt.Sprintf("the %s debugging flag wasn't present", e.Option)
	case ErrKindElectronOptionNotPresent:
		return fmt.Sprintf("the Electron option for %s wasn't present", e.Option)
	case ErrKindMessageNotPresent:
		return fmt.Sprintf("the DevTools message %s wasn't present", e.Option)
	default:
		return fmt.Sprintf("binary error (kind %d)", e.Kind)
	}
}

// Is matches any *BinaryError of the same Kind, so the Kind sentinels below
// work with errors.Is. Use errors.As to inspect the fuse or option.
func (e *BinaryError) Is(target error) bool {
	t, ok := target.(*BinaryError)
	return ok && e != nil && t.Kind == e.Kind
}

// NotPresent reports whether the error is one of the pattern-not-found kinds.
func (e *BinaryError) NotPresent() bool {
	switch e.Kind {
	case ErrKindNodeFlagNotPresent, ErrKindElectronOptionNotPresent, ErrKindMessageNotPresent:
		return true
	}
	return false
}

// NoSentinel builds the error for a binary without a fuse wire.
func NoSentinel() *BinaryError { return &BinaryError{Kind: ErrKindNoSentinel} }

// NoFuseVersion builds the error for a wire header cut off before its version.
func NoFuseVersion() *BinaryError { return &BinaryError{Kind: ErrKindNoFuseVersion} }

// NoFuseLength builds the error for a wire header cut off before its length.
func NoFuseLength() *BinaryError { return &BinaryError{Kind: ErrKindNoFuseLength} }

// FuseDoesNotExist builds the error for a fuse missing from the wire.
func FuseDoesNotExist(f Fuse) *BinaryError {
	return &BinaryError{Kind: ErrKindFuseDoesNotExist, Fuse: f}
}

// UnknownFuse builds the error for an unrecognized fuse byte.
func UnknownFuse(f Fuse, value byte) *BinaryError {
	return &BinaryError{Kind: ErrKindUnknownFuse, Fuse: f, Value: value}
}

// OptionNotPresent builds the family-specific not-present error for opt.
func OptionNotPresent(opt Option) *BinaryError {
	kind := ErrKindNodeFlagNotPresent
	if opt == nil {
		return &BinaryError{Kind: kind}
	}
	switch opt.Family() {
	case FamilyElectronOption:
		kind = ErrKindElectronOptionNotPresent
	case FamilyDevToolsMessage:
		kind = ErrKindMessageNotPresent
	}
	return &BinaryError{Kind: kind, Option: opt}
}

// -----------------------------------------------------------------------------
// Patcher-level errors
// -----------------------------------------------------------------------------

// PatcherErrKind classifies errors returned by the application handle.
type PatcherErrKind int

const (
	ErrKindBinary      PatcherErrKind = iota // wraps a *BinaryError
	ErrKindFuseVersion                       // schema version is recognized but unsupported
	ErrKindRemovedFuse                       // mutation of a fuse marked as removed
)

// PatcherError is the error every public operation returns.
type PatcherError struct {
	Kind     PatcherErrKind
	Binary   *BinaryError // ErrKindBinary
	Expected uint8        // ErrKindFuseVersion
	Found    uint8        // ErrKindFuseVersion
	Fuse     Fuse         // ErrKindRemovedFuse
}

func (e *PatcherError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrKindBinary:
		return e.Binary.Error()
	case ErrKindFuseVersion:
		return fmt.Sprintf("unknown fuse version found: expected %d, but found %d", e.Expected, e.Found)
	case ErrKindRemovedFuse:
		return fmt.Sprintf("failed to modify the %s fuse because it is marked as removed", e.Fuse)
	default:
		return fmt.Sprintf("patcher error (kind %d)", e.Kind)
	}
}

// Unwrap exposes the wrapped binary error.
func (e *PatcherError) Unwrap() error {
	if e == nil || e.Binary == nil {
		return nil
	}
	return e.Binary
}

// Is matches any *PatcherError of the same Kind.
func (e *PatcherError) Is(target error) bool {
	t, ok := target.(*PatcherError)
	return ok && e != nil && t.Kind == e.Kind
}

// Wrap lifts a binary error to the patcher level.
func Wrap(b *BinaryError) *PatcherError {
	return &PatcherError{Kind: ErrKindBinary, Binary: b}
}

// FuseVersionMismatch builds the unsupported-schema error.
func FuseVersionMismatch(expected, found uint8) *PatcherError {
	return &PatcherError{Kind: ErrKindFuseVersion, Expected: expected, Found: found}
}

// RemovedFuse builds the error for an attempt to modify a removed fuse.
func RemovedFuse(f Fuse) *PatcherError {
	return &PatcherError{Kind: ErrKindRemovedFuse, Fuse: f}
}

// Kind sentinels for errors.Is.
var (
	ErrNoSentinel               = &BinaryError{Kind: ErrKindNoSentinel}
	ErrNoFuseVersion            = &BinaryError{Kind: ErrKindNoFuseVersion}
	ErrNoFuseLength             = &BinaryError{Kind: ErrKindNoFuseLength}
	ErrFuseDoesNotExist         = &BinaryError{Kind: ErrKindFuseDoesNotExist}
	ErrUnknownFuse              = &BinaryError{Kind: ErrKindUnknownFuse}
	ErrNodeFlagNotPresent       = &BinaryError{Kind: ErrKindNodeFlagNotPresent}
	ErrElectronOptionNotPresent = &BinaryError{Kind: ErrKindElectronOptionNotPresent}
	ErrMessageNotPresent        = &BinaryError{Kind: ErrKindMessageNotPresent}

	ErrFuseVersion = &PatcherError{Kind: ErrKindFuseVersion}
	ErrRemovedFuse = &PatcherError{Kind: ErrKindRemovedFuse}
)

// IsNotPresent reports whether err carries a pattern-not-found binary error.
func IsNotPresent(err error) bool {
	var be *BinaryError
	return errors.As(err, &be) && be.NotPresent()
}
