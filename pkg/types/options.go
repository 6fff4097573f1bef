package types

import "fmt"

// OptionFamily groups patchable options by how they are neutralized.
type OptionFamily uint8

const (
	FamilyNodeFlag        OptionFamily = iota // Node.js debugging flags
	FamilyElectronOption                      // Electron command-line switches
	FamilyDevToolsMessage                     // DevTools stdout message templates
)

// String implements fmt.Stringer.
func (f OptionFamily) String() string {
	switch f {
	case FamilyNodeFlag:
		return "node-flag"
	case FamilyElectronOption:
		return "electron-option"
	case FamilyDevToolsMessage:
		return "devtools-message"
	default:
		return fmt.Sprintf("OptionFamily(%d)", uint8(f))
	}
}

// Option is a literal string inside an application binary that can be
// patched to disable the behavior it controls.
//
// The set of implementations is closed: only NodeFlag, ElectronOption and
// DevToolsMessage satisfy it.
type Option interface {
	fmt.Stringer
	// Family reports which replacement strategy applies to the option.
	Family() OptionFamily
	// Name is the command-line spelling accepted by ParseOption.
	Name() string

	isOption()
}

// NodeFlag is a Node.js command-line debugging flag.
//
// Deprecated: superseded by the NodeCliInspect fuse. Kept for binaries built
// before the fuse existed.
type NodeFlag uint8

const (
	Inspect NodeFlag = iota
	InspectBrk
	InspectPort
	Debug
	DebugBrk
	DebugPort
	InspectBrkNode
	InspectPublishUID
)

var nodeFlagNames = [...][2]string{
	Inspect:           {"Inspect", "inspect"},
	InspectBrk:        {"InspectBrk", "inspect-brk"},
	InspectPort:       {"InspectPort", "inspect-port"},
	Debug:             {"Debug", "debug"},
	DebugBrk:          {"DebugBrk", "debug-brk"},
	DebugPort:         {"DebugPort", "debug-port"},
	InspectBrkNode:    {"InspectBrkNode", "inspect-brk-node"},
	InspectPublishUID: {"InspectPublishUID", "inspect-publish-uid"},
}

func (f NodeFlag) String() string {
	if int(f) < len(nodeFlagNames) {
		return nodeFlagNames[f][0]
	}
	return fmt.Sprintf("NodeFlag(%d)", uint8(f))
}

func (f NodeFlag) Name() string {
	if int(f) < len(nodeFlagNames) {
		return nodeFlagNames[f][1]
	}
	return f.String()
}

func (NodeFlag) Family() OptionFamily { return FamilyNodeFlag }
func (NodeFlag) isOption()            {}

// AllNodeFlags returns every known Node.js debugging flag.
func AllNodeFlags() []NodeFlag {
	out := make([]NodeFlag, len(nodeFlagNames))
	for i := range nodeFlagNames {
		out[i] = NodeFlag(i)
	}
	return out
}

// ElectronOption is an Electron command-line switch.
type ElectronOption uint8

const (
	JsFlags ElectronOption = iota
	RemoteDebuggingPipe
	RemoteDebuggingPort
	WaitForDebuggerChildren
)

var electronOptionNames = [...][2]string{
	JsFlags:                 {"JsFlags", "js-flags"},
	RemoteDebuggingPipe:     {"RemoteDebuggingPipe", "remote-debugging-pipe"},
	RemoteDebuggingPort:     {"RemoteDebuggingPort", "remote-debugging-port"},
	WaitForDebuggerChildren: {"WaitForDebuggerChildren", "wait-for-debugger-children"},
}

func (o ElectronOption) String() string {
	if int(o) < len(electronOptionNames) {
		return electronOptionNames[o][0]
	}
	return fmt.Sprintf("ElectronOption(%d)", uint8(o))
}

func (o ElectronOption) Name() string {
	if int(o) < len(electronOptionNames) {
		return electronOptionNames[o][1]
	}
	return o.String()
}

func (ElectronOption) Family() OptionFamily { return FamilyElectronOption }
func (ElectronOption) isOption()            {}

// AllElectronOptions returns every known Electron switch.
func AllElectronOptions() []ElectronOption {
	out := make([]ElectronOption, len(electronOptionNames))
	for i := range electronOptionNames {
		out[i] = ElectronOption(i)
	}
	return out
}

// DevToolsMessage is a message template Node.js prints to stdout when a
// debugger starts listening.
//
// Patching one is a last-resort protection: if a debugging flag slips through
// the argument parser anyway, printing the patched template crashes the
// process instead of exposing a debugger.
//
// Deprecated: no longer necessary with the NodeCliInspect fuse.
type DevToolsMessage uint8

const (
	// Listening is printed when Node.js listens on a TCP port,
	// e.g. "Debugger listening on 127.0.0.1:9229/uuid".
	Listening DevToolsMessage = iota
	// ListeningWs is printed when DevTools listens on a websocket,
	// e.g. "DevTools listening on ws://127.0.0.1:9229/uuid".
	ListeningWs
)

var devToolsMessageNames = [...][2]string{
	Listening:   {"Listening", "listening"},
	ListeningWs: {"ListeningWs", "listening-ws"},
}

func (m DevToolsMessage) String() string {
	if int(m) < len(devToolsMessageNames) {
		return devToolsMessageNames[m][0]
	}
	return fmt.Sprintf("DevToolsMessage(%d)", uint8(m))
}

func (m DevToolsMessage) Name() string {
	if int(m) < len(devToolsMessageNames) {
		return devToolsMessageNames[m][1]
	}
	return m.String()
}

func (DevToolsMessage) Family() OptionFamily { return FamilyDevToolsMessage }
func (DevToolsMessage) isOption()            {}

// AllDevToolsMessages returns every known DevTools message.
func AllDevToolsMessages() []DevToolsMessage {
	out := make([]DevToolsMessage, len(devToolsMessageNames))
	for i := range devToolsMessageNames {
		out[i] = DevToolsMessage(i)
	}
	return out
}

// AllOptions returns every patchable option: flags, then switches, then messages.
func AllOptions() []Option {
	out := make([]Option, 0, len(nodeFlagNames)+len(electronOptionNames)+len(devToolsMessageNames))
	for _, f := range AllNodeFlags() {
		out = append(out, f)
	}
	for _, o := range AllElectronOptions() {
		out = append(out, o)
	}
	for _, m := range AllDevToolsMessages() {
		out = append(out, m)
	}
	return out
}
