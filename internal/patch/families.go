package patch

import "github.com/joshuapare/hardenkit/pkg/types"

// hyphenReplacer turns every '-' into ' ', so "--inspect" no longer parses
// as a flag.
type hyphenReplacer struct{}

func (hyphenReplacer) replace(region []byte) {
	for i, b := range region {
		if b == '-' {
			region[i] = ' '
		}
	}
}

// optionLeadIn overwrites the start of an Electron switch; the rest of the
// match is NUL padded.
var optionLeadIn = []byte("\x00xx\r\n")

type optionReplacer struct{}

func (optionReplacer) replace(region []byte) {
	n := copy(region, optionLeadIn)
	clear(region[n:])
}

// messageReplacer rebuilds a message template as NUL, a run of "%s"
// placeholders, and "\n\x00". Printing the result with the original
// arguments reads past them and crashes the process, which is the intent.
type messageReplacer struct{}

func (messageReplacer) replace(region []byte) {
	n := len(region)
	if n < 3 {
		clear(region)
		return
	}
	region[0] = 0
	interior := region[1 : n-2]
	pairs := (n - 3) / 2
	for i := 0; i < pairs; i++ {
		interior[2*i] = '%'
		interior[2*i+1] = 's'
	}
	if len(interior)%2 == 1 {
		interior[len(interior)-1] = ' '
	}
	region[n-2] = '\n'
	region[n-1] = 0
}

var nodeFlags = map[types.NodeFlag]target{
	types.Inspect: {
		search: []byte("\x00--inspect\x00"),
		// Electron 13 Windows binaries lay the flag table out differently.
		fallback: []byte("\xAA--inspect\x00"),
		replacer: hyphenReplacer{},
	},
	types.InspectBrk:        {search: []byte("\x00--inspect-brk\x00"), replacer: hyphenReplacer{}},
	types.InspectPort:       {search: []byte("\x00--inspect-port\x00"), replacer: hyphenReplacer{}},
	types.Debug:             {search: []byte("\x00--debug\x00"), replacer: hyphenReplacer{}},
	types.DebugBrk:          {search: []byte("\x00--debug-brk\x00"), replacer: hyphenReplacer{}},
	types.DebugPort:         {search: []byte("\x00--debug-port\x00"), replacer: hyphenReplacer{}},
	types.InspectBrkNode:    {search: []byte("\x00--inspect-brk-node\x00"), replacer: hyphenReplacer{}},
	types.InspectPublishUID: {search: []byte("\x00--inspect-publish-uid\x00"), replacer: hyphenReplacer{}},
}

var electronOptions = map[types.ElectronOption]target{
	types.JsFlags:                 {search: []byte("\x00js-flags\x00"), replacer: optionReplacer{}},
	types.RemoteDebuggingPipe:     {search: []byte("\x00remote-debugging-pipe\x00"), replacer: optionReplacer{}},
	types.RemoteDebuggingPort:     {search: []byte("\x00remote-debugging-port\x00"), replacer: optionReplacer{}},
	types.WaitForDebuggerChildren: {search: []byte("\x00wait-for-debugger-children\x00"), replacer: optionReplacer{}},
}

var devToolsMessages = map[types.DevToolsMessage]target{
	types.Listening:   {search: []byte("\x00Debugger listening on %s\n\x00"), replacer: messageReplacer{}},
	types.ListeningWs: {search: []byte("\x00\nDevTools listening on ws://%s%s\n\x00"), replacer: messageReplacer{}},
}
