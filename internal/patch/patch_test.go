package patch

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hardenkit/internal/testutil"
	"github.com/joshuapare/hardenkit/pkg/types"
)

func notPresent(opt types.Option) error {
	return types.Wrap(types.OptionNotPresent(opt))
}

func TestEveryOptionHasATarget(t *testing.T) {
	for _, opt := range types.AllOptions() {
		search, fallback, ok := Pattern(opt)
		require.True(t, ok, "no pattern for %s", opt)
		require.NotEmpty(t, search)
		if opt == types.Option(types.Inspect) {
			require.Equal(t, []byte("\xAA--inspect\x00"), fallback)
		} else {
			require.Nil(t, fallback, "only Inspect has a fallback, %s has one", opt)
		}
	}
}

func TestDisablingNodeFlagsWorks(t *testing.T) {
	data := testutil.FlagsBinary()

	for _, flag := range types.AllNodeFlags() {
		require.NoError(t, Disable(data, flag), "flag %s", flag)
	}

	for _, flag := range types.AllNodeFlags() {
		require.Equal(t, notPresent(flag), Disable(data, flag))
	}
}

func TestDisablingElectronOptionsWorks(t *testing.T) {
	data := testutil.FlagsBinary()

	for _, opt := range types.AllElectronOptions() {
		require.NoError(t, Disable(data, opt), "option %s", opt)
	}
	for _, opt := range types.AllElectronOptions() {
		err := Disable(data, opt)
		require.Equal(t, notPresent(opt), err)
		require.ErrorIs(t, err, types.ErrElectronOptionNotPresent)
	}
}

func TestDisablingDebuggingMessagesWorks(t *testing.T) {
	data := testutil.FlagsBinary()

	messages := []types.DevToolsMessage{types.ListeningWs, types.Listening}
	for _, msg := range messages {
		require.NoError(t, Disable(data, msg), "message %s", msg)
	}
	for _, msg := range messages {
		err := Disable(data, msg)
		require.Equal(t, notPresent(msg), err)
		require.ErrorIs(t, err, types.ErrMessageNotPresent)
	}
}

func TestInspectFlagEndToEnd(t *testing.T) {
	data := []byte("\x00--inspect\x00")

	require.NoError(t, Disable(data, types.Inspect))
	require.Equal(t, []byte("\x00  inspect\x00"), data)

	err := Disable(data, types.Inspect)
	require.ErrorIs(t, err, types.ErrNodeFlagNotPresent)

	var be *types.BinaryError
	require.True(t, errors.As(err, &be))
	require.Equal(t, types.Option(types.Inspect), be.Option)
}

func TestInspectFallbackLayout(t *testing.T) {
	data := testutil.WindowsFlagsBinary()
	before := bytes.Clone(data)

	r, err := Apply(data, types.Inspect)
	require.NoError(t, err)
	require.Equal(t, []byte("\xAA  inspect\x00"), data[r.Start:r.End])
	require.Len(t, testutil.Diff(t, before, data), 2)

	require.ErrorIs(t, Disable(data, types.Inspect), types.ErrNodeFlagNotPresent)
}

func TestInspectPrefersPrimaryPattern(t *testing.T) {
	data := append(testutil.WindowsFlagsBinary(), []byte("\x00--inspect\x00")...)
	windowsAt := strings.Index(string(data), testutil.InspectWindowsLayout)

	r, err := Apply(data, types.Inspect)
	require.NoError(t, err)
	require.Equal(t, len(data)-11, r.Start)
	require.Equal(t, testutil.InspectWindowsLayout, string(data[windowsAt:windowsAt+11]), "fallback layout must be left alone")

	// The second call finds only the fallback layout.
	r, err = Apply(data, types.Inspect)
	require.NoError(t, err)
	require.Equal(t, windowsAt, r.Start)
}

func TestOnlyFirstMatchIsPatched(t *testing.T) {
	data := []byte("\x00js-flags\x00....\x00js-flags\x00")

	r, err := Apply(data, types.JsFlags)
	require.NoError(t, err)
	require.Equal(t, types.Range{Start: 0, End: 10}, r)
	require.Equal(t, "\x00js-flags\x00", string(data[14:]))

	r, err = Apply(data, types.JsFlags)
	require.NoError(t, err)
	require.Equal(t, 14, r.Start)
}

func TestElectronOptionReplacement(t *testing.T) {
	data := []byte("ab\x00js-flags\x00cd")

	require.NoError(t, Disable(data, types.JsFlags))
	require.Equal(t, []byte("ab\x00xx\r\n\x00\x00\x00\x00\x00cd"), data)
}

func TestDevToolsMessageReplacement(t *testing.T) {
	data := []byte("\x00Debugger listening on %s\n\x00")

	require.NoError(t, Disable(data, types.Listening))
	want := "\x00" + strings.Repeat("%s", 12) + "\n\x00"
	require.Equal(t, want, string(data))
}

func TestMessageReplacerOddInterior(t *testing.T) {
	region := []byte("\x00abcde\n\x00")
	messageReplacer{}.replace(region)
	require.Equal(t, "\x00%s%s \n\x00", string(region))

	short := []byte("\x00\n")
	messageReplacer{}.replace(short)
	require.Equal(t, []byte{0, 0}, short)
}

func TestOptionReplacerShortRegion(t *testing.T) {
	region := []byte("abc")
	optionReplacer{}.replace(region)
	require.Equal(t, []byte("\x00xx"), region)
}

func TestReplacementPreservesLength(t *testing.T) {
	for _, opt := range types.AllOptions() {
		t.Run(opt.Name(), func(t *testing.T) {
			data := testutil.FlagsBinary()
			before := bytes.Clone(data)

			r, err := Apply(data, opt)
			require.NoError(t, err)
			require.Len(t, data, len(before))

			search, _, _ := Pattern(opt)
			require.Equal(t, len(search), r.Len())

			for _, off := range testutil.Diff(t, before, data) {
				assert.True(t, off >= r.Start && off < r.End, "byte %d changed outside %v", off, r)
			}
			assert.Equal(t, before[:r.Start], data[:r.Start])
			assert.Equal(t, before[r.End:], data[r.End:])
		})
	}
}

func TestMissingOptionLeavesBinaryUntouched(t *testing.T) {
	data := testutil.FuseBinary(testutil.DefaultWire)
	before := bytes.Clone(data)

	for _, opt := range types.AllOptions() {
		_, ok := Find(data, opt)
		require.False(t, ok)
		err := Disable(data, opt)
		require.True(t, types.IsNotPresent(err), "option %s: %v", opt, err)
	}
	require.Equal(t, before, data)
}

func TestFindDoesNotModify(t *testing.T) {
	data := testutil.FlagsBinary()
	before := bytes.Clone(data)

	r, ok := Find(data, types.RemoteDebuggingPort)
	require.True(t, ok)
	require.Equal(t, "\x00remote-debugging-port\x00", string(data[r.Start:r.End]))
	require.Equal(t, before, data)
}

func TestNilOption(t *testing.T) {
	err := Disable([]byte("anything"), nil)
	require.True(t, types.IsNotPresent(err))
}
