package hardener

import (
	"go.uber.org/zap"

	"github.com/joshuapare/hardenkit/pkg/types"
)

// Profile describes a hardening pass over one binary.
type Profile struct {
	// Fuses maps a fuse to its desired value. Fuses not in the map are left alone.
	Fuses map[types.Fuse]bool

	NodeFlags       []types.NodeFlag
	ElectronOptions []types.ElectronOption
	Messages        []types.DevToolsMessage

	// IgnoreMissing turns not-present option errors into skipped steps.
	// Fuse errors always stop the pass.
	IgnoreMissing bool
}

// DefaultProfile disables ELECTRON_RUN_AS_NODE and patches every known
// debugging option and DevTools message.
func DefaultProfile() Profile {
	return Profile{
		Fuses:           map[types.Fuse]bool{types.RunAsNode: false},
		NodeFlags:       types.AllNodeFlags(),
		ElectronOptions: types.AllElectronOptions(),
		Messages:        types.AllDevToolsMessages(),
	}
}

// Options returns the profile's options in the order Apply patches them.
func (p Profile) Options() []types.Option {
	out := make([]types.Option, 0, len(p.NodeFlags)+len(p.ElectronOptions)+len(p.Messages))
	for _, f := range p.NodeFlags {
		out = append(out, f)
	}
	for _, o := range p.ElectronOptions {
		out = append(out, o)
	}
	for _, m := range p.Messages {
		out = append(out, m)
	}
	return out
}

// ApplyOptions controls Apply. A nil *ApplyOptions uses the defaults.
type ApplyOptions struct {
	// Logger receives one entry per step. Defaults to a no-op logger.
	Logger *zap.Logger
}

// StepKind says what a step acted on.
type StepKind string

const (
	StepFuse   StepKind = "fuse"
	StepOption StepKind = "option"
)

// StepResult is the outcome of one step.
type StepResult string

const (
	ResultModified  StepResult = "modified"  // fuse byte written
	ResultUnchanged StepResult = "unchanged" // fuse already had the value
	ResultPatched   StepResult = "patched"   // option string rewritten
	ResultSkipped   StepResult = "skipped"   // option missing, IgnoreMissing set
	ResultFailed    StepResult = "failed"
)

// Step records one fuse or option handled by Apply.
type Step struct {
	Kind   StepKind   `json:"kind"`
	Family string     `json:"family,omitempty"`
	Target string     `json:"target"`
	Result StepResult `json:"result"`
	Err    error      `json:"-"`
	Error  string     `json:"error,omitempty"`
}

// Report lists the steps Apply ran, in order. On failure the last step is
// the one that failed.
type Report struct {
	Steps []Step `json:"steps"`
}

// Count returns how many steps ended with r.
func (r *Report) Count(res StepResult) int {
	n := 0
	for _, s := range r.Steps {
		if s.Result == res {
			n++
		}
	}
	return n
}

func (r *Report) add(s Step) {
	if s.Err != nil {
		s.Error = s.Err.Error()
	}
	r.Steps = append(r.Steps, s)
}

// Apply runs p against the binary.
//
// Fuses are set in schema order, then options are patched in the order
// returned by Profile.Options. The first error stops the pass and is
// returned with the report so far; changes already made are kept.
func (a *App) Apply(p Profile, opts *ApplyOptions) (*Report, error) {
	log := zap.NewNop()
	if opts != nil && opts.Logger != nil {
		log = opts.Logger
	}

	report := &Report{}

	for _, f := range types.AllFuses() {
		want, ok := p.Fuses[f]
		if !ok {
			continue
		}
		st, err := a.SetFuseStatus(f, want)
		step := Step{Kind: StepFuse, Target: f.String()}
		if err != nil {
			step.Result, step.Err = ResultFailed, err
			report.add(step)
			log.Error("set fuse failed", zap.Stringer("fuse", f), zap.Bool("enable", want), zap.Error(err))
			return report, err
		}
		if st.Kind == types.StatusModified {
			step.Result = ResultModified
		} else {
			step.Result = ResultUnchanged
		}
		report.add(step)
		log.Info("fuse set",
			zap.Stringer("fuse", f),
			zap.Bool("enable", want),
			zap.String("result", string(step.Result)))
	}

	for _, opt := range p.Options() {
		step := Step{Kind: StepOption, Family: opt.Family().String(), Target: opt.Name()}
		err := a.PatchOption(opt)
		switch {
		case err == nil:
			step.Result = ResultPatched
			log.Info("option patched", zap.String("family", step.Family), zap.String("option", step.Target))
		case p.IgnoreMissing && types.IsNotPresent(err):
			step.Result, step.Err = ResultSkipped, err
			log.Warn("option not present", zap.String("family", step.Family), zap.String("option", step.Target))
		default:
			step.Result, step.Err = ResultFailed, err
			report.add(step)
			log.Error("patch option failed", zap.String("option", step.Target), zap.Error(err))
			return report, err
		}
		report.add(step)
	}

	log.Debug("profile applied",
		zap.Int("steps", len(report.Steps)),
		zap.Int("bytes_changed", a.changedBytes()))
	return report, nil
}

func (a *App) changedBytes() int { return int(a.changes.Bytes()) }
