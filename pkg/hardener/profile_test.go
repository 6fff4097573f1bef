package hardener

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joshuapare/hardenkit/internal/testutil"
	"github.com/joshuapare/hardenkit/pkg/types"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	require.Equal(t, map[types.Fuse]bool{types.RunAsNode: false}, p.Fuses)
	require.Len(t, p.Options(), len(types.AllOptions()))
	require.Equal(t, types.AllOptions(), p.Options())
	require.False(t, p.IgnoreMissing)
}

func TestApplyDefaultProfile(t *testing.T) {
	data := testutil.AppBinary()
	app := openApp(t, data)

	report, err := app.Apply(DefaultProfile(), nil)
	require.NoError(t, err)

	require.Len(t, report.Steps, 1+len(types.AllOptions()))
	assert.Equal(t, Step{Kind: StepFuse, Target: "RunAsNode", Result: ResultModified}, report.Steps[0])
	assert.Equal(t, 1, report.Count(ResultModified))
	assert.Equal(t, len(types.AllOptions()), report.Count(ResultPatched))

	st, err := app.FuseStatus(types.RunAsNode)
	require.NoError(t, err)
	require.Equal(t, types.Present(false), st)

	for _, opt := range types.AllOptions() {
		_, ok := app.Locate(opt)
		assert.False(t, ok, "%s still present", opt)
	}
}

func TestApplyIsNotRepeatable(t *testing.T) {
	app := openApp(t, testutil.AppBinary())

	_, err := app.Apply(DefaultProfile(), nil)
	require.NoError(t, err)

	report, err := app.Apply(DefaultProfile(), nil)
	require.ErrorIs(t, err, types.ErrNodeFlagNotPresent)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, ResultUnchanged, report.Steps[0].Result)
	assert.Equal(t, ResultFailed, report.Steps[1].Result)
	assert.Equal(t, "inspect", report.Steps[1].Target)
	assert.NotEmpty(t, report.Steps[1].Error)
}

func TestApplyIgnoreMissing(t *testing.T) {
	// Only the Windows --inspect layout exists; everything else is missing.
	data := append(testutil.FuseBinary(testutil.DefaultWire), testutil.WindowsFlagsBinary()...)
	app := openApp(t, data)

	p := DefaultProfile()
	p.IgnoreMissing = true

	core, logs := observer.New(zapcore.DebugLevel)
	report, err := app.Apply(p, &ApplyOptions{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(ResultPatched))
	assert.Equal(t, len(types.AllOptions())-1, report.Count(ResultSkipped))
	assert.True(t, bytes.Contains(data, []byte("\xAA  inspect\x00")))

	warns := logs.FilterMessage("option not present").All()
	require.Len(t, warns, len(types.AllOptions())-1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	assert.Equal(t, 1, logs.FilterMessage("option patched").Len())
	assert.Equal(t, 1, logs.FilterMessage("profile applied").Len())
}

func TestApplyStopsOnFuseError(t *testing.T) {
	data := append(testutil.FuseBinary([]byte("r0")), testutil.FlagsBinary()...)
	before := bytes.Clone(data)
	app := openApp(t, data)

	p := DefaultProfile()
	p.IgnoreMissing = true

	report, err := app.Apply(p, nil)
	require.ErrorIs(t, err, types.ErrRemovedFuse)
	require.Len(t, report.Steps, 1)
	require.Equal(t, ResultFailed, report.Steps[0].Result)
	require.Equal(t, before, data, "no option may be patched after a fuse failure")
}

func TestApplyKeepsEarlierChanges(t *testing.T) {
	// Electron switches exist, Node flags do not.
	var blob bytes.Buffer
	blob.Write(testutil.FuseBinary(testutil.DefaultWire))
	for _, s := range testutil.ElectronOptionStrings {
		blob.WriteString("pad")
		blob.WriteString(s)
	}
	data := blob.Bytes()
	app := openApp(t, data)

	p := Profile{
		Fuses:           map[types.Fuse]bool{types.RunAsNode: false, types.NodeCliInspect: false},
		ElectronOptions: types.AllElectronOptions(),
		Messages:        []types.DevToolsMessage{types.Listening},
	}
	report, err := app.Apply(p, nil)
	require.ErrorIs(t, err, types.ErrMessageNotPresent)
	require.Len(t, report.Steps, 2+len(types.AllElectronOptions())+1)

	// Fuses run in schema order regardless of map order.
	assert.Equal(t, "RunAsNode", report.Steps[0].Target)
	assert.Equal(t, "NodeCliInspect", report.Steps[1].Target)

	st, _ := app.FuseStatus(types.NodeCliInspect)
	assert.Equal(t, types.Present(false), st)
	_, ok := app.Locate(types.JsFlags)
	assert.False(t, ok, "earlier patches are not rolled back")
}

func TestApplyEmptyProfile(t *testing.T) {
	app := openApp(t, testutil.AppBinary())

	report, err := app.Apply(Profile{}, nil)
	require.NoError(t, err)
	require.Empty(t, report.Steps)
	require.False(t, app.Dirty())
}
