package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// fold normalizes a user-supplied name: Unicode case folding, then dashes,
// underscores and spaces dropped, so "inspect-brk", "--inspect-brk" and
// "InspectBrk" all compare equal.
func fold(name string) string {
	folded := cases.Fold().String(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, folded)
}

// ParseFuse resolves a fuse from its Go name or its Electron name.
func ParseFuse(name string) (Fuse, error) {
	want := fold(name)
	for _, f := range AllFuses() {
		if fold(f.String()) == want || fold(f.ElectronName()) == want {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fuse %q", name)
}

// ParseOption resolves a patchable option from its command-line spelling
// ("inspect", "--inspect-brk", "js-flags", "listening-ws") or its Go name.
func ParseOption(name string) (Option, error) {
	want := fold(name)
	for _, opt := range AllOptions() {
		if fold(opt.Name()) == want || fold(opt.String()) == want {
			return opt, nil
		}
	}
	return nil, fmt.Errorf("unknown option %q", name)
}

// ParseOptionOf resolves a name within a single family.
func ParseOptionOf(family OptionFamily, name string) (Option, error) {
	opt, err := ParseOption(name)
	if err != nil {
		return nil, err
	}
	if opt.Family() != family {
		return nil, fmt.Errorf("option %q is a %s, not a %s", name, opt.Family(), family)
	}
	return opt, nil
}
