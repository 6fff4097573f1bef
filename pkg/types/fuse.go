package types

import "fmt"

// Fuse is a feature switch that Electron compiles into the fuse wire of every
// packaged application. Fuses disable functionality in a way that code
// signing can enforce at the OS level.
//
// In the binary the wire is laid out as:
//
//	| ...binary | sentinel | version | wire length | wire bytes | ...binary |
//
// Each fuse owns exactly one byte of the wire. Its position is fixed by the
// version 1 schema.
type Fuse uint8

const (
	// RunAsNode controls ELECTRON_RUN_AS_NODE support.
	RunAsNode Fuse = iota
	// EncryptedCookies enables cookie encryption at rest.
	EncryptedCookies
	// NodeOptions controls the NODE_OPTIONS environment variable.
	NodeOptions
	// NodeCliInspect controls the --inspect family of command-line flags.
	NodeCliInspect
	// EmbeddedAsarIntegrityValidation enables validation of the app.asar archive.
	EmbeddedAsarIntegrityValidation
	// OnlyLoadAppFromAsar restricts app code loading to app.asar.
	OnlyLoadAppFromAsar
	// LoadBrowserProcessSpecificV8Snapshot selects the browser_v8_context_snapshot.bin snapshot.
	LoadBrowserProcessSpecificV8Snapshot
	// GrantFileProtocolExtraPrivileges grants file:// pages extra privileges.
	GrantFileProtocolExtraPrivileges
)

var fuseNames = [...]struct {
	name     string
	electron string
}{
	RunAsNode:                            {"RunAsNode", "RunAsNode"},
	EncryptedCookies:                     {"EncryptedCookies", "EnableCookieEncryption"},
	NodeOptions:                          {"NodeOptions", "EnableNodeOptionsEnvironmentVariable"},
	NodeCliInspect:                       {"NodeCliInspect", "EnableNodeCliInspectArguments"},
	EmbeddedAsarIntegrityValidation:      {"EmbeddedAsarIntegrityValidation", "EnableEmbeddedAsarIntegrityValidation"},
	OnlyLoadAppFromAsar:                  {"OnlyLoadAppFromAsar", "OnlyLoadAppFromAsar"},
	LoadBrowserProcessSpecificV8Snapshot: {"LoadBrowserProcessSpecificV8Snapshot", "LoadBrowserProcessSpecificV8Snapshot"},
	GrantFileProtocolExtraPrivileges:     {"GrantFileProtocolExtraPrivileges", "GrantFileProtocolExtraPrivileges"},
}

// String implements fmt.Stringer.
func (f Fuse) String() string {
	if f.Known() {
		return fuseNames[f].name
	}
	return fmt.Sprintf("Fuse(%d)", uint8(f))
}

// ElectronName returns the name Electron's own tooling uses for the fuse.
func (f Fuse) ElectronName() string {
	if f.Known() {
		return fuseNames[f].electron
	}
	return f.String()
}

// Known reports whether f is a member of the enumeration.
func (f Fuse) Known() bool {
	return int(f) < len(fuseNames)
}

// MarshalText renders the fuse by name.
func (f Fuse) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// AllFuses returns every known fuse in schema order.
func AllFuses() []Fuse {
	out := make([]Fuse, len(fuseNames))
	for i := range fuseNames {
		out[i] = Fuse(i)
	}
	return out
}

// StatusKind classifies the result of a fuse query or mutation.
type StatusKind uint8

const (
	StatusPresent  StatusKind = iota // fuse exists; Enabled holds its value
	StatusModified                   // fuse existed and was flipped to the requested value
	StatusRemoved                    // fuse was retired from the schema; it cannot be changed
)

// FuseStatus is the state of a fuse, or the outcome of changing it.
type FuseStatus struct {
	Kind    StatusKind
	Enabled bool // only meaningful for StatusPresent
}

// Present returns a StatusPresent status.
func Present(enabled bool) FuseStatus { return FuseStatus{Kind: StatusPresent, Enabled: enabled} }

// Modified returns a StatusModified status.
func Modified() FuseStatus { return FuseStatus{Kind: StatusModified} }

// Removed returns a StatusRemoved status.
func Removed() FuseStatus { return FuseStatus{Kind: StatusRemoved} }

// IsPresent reports whether the status is Present(enabled).
func (s FuseStatus) IsPresent(enabled bool) bool {
	return s.Kind == StatusPresent && s.Enabled == enabled
}

// String implements fmt.Stringer.
func (s FuseStatus) String() string {
	switch s.Kind {
	case StatusPresent:
		if s.Enabled {
			return "enabled"
		}
		return "disabled"
	case StatusModified:
		return "modified"
	case StatusRemoved:
		return "removed"
	default:
		return fmt.Sprintf("FuseStatus(%d)", s.Kind)
	}
}

// MarshalText renders the status as its String form.
func (s FuseStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
