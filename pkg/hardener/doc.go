/*
Package hardener views and modifies Electron fuses and disables debugging
entry points inside a packaged application binary.

An unprivileged process that cannot write to the application's binary or
address space should not be able to change what the application does at
runtime. Fuses and patched option strings enforce that: once flipped and
signed, the binary refuses ELECTRON_RUN_AS_NODE, --inspect and friends.

# Quick Start

	data, _ := os.ReadFile("MyApp")
	app, err := hardener.FromBytes(data)
	if err != nil {
	    log.Fatal(err)
	}
	if _, err := app.SetFuseStatus(types.RunAsNode, false); err != nil {
	    log.Fatal(err)
	}
	if err := app.PatchOption(types.JsFlags); err != nil {
	    log.Fatal(err)
	}
	_ = os.WriteFile("MyApp", app.Bytes(), 0o755)

App borrows the slice passed to FromBytes: every change is written into it in
place and its length never changes. The caller keeps ownership and decides
when to persist it. OpenFile wraps the same flow for files on disk.

# Profiles

Apply runs a whole hardening profile in a fixed order: fuses in schema
order, then Node.js flags, Electron switches and DevTools messages.
DefaultProfile reproduces electron-evil-feature-patcher:

	report, err := app.Apply(hardener.DefaultProfile(), nil)

There is no rollback. If a step fails, the steps before it stay applied.

# Error Handling

Every error is a *types.PatcherError. Branch on kind with errors.Is:

	switch {
	case errors.Is(err, types.ErrNoSentinel):
	    // not an Electron binary
	case errors.Is(err, types.ErrFuseVersion):
	    // newer fuse schema than this package understands
	case errors.Is(err, types.ErrRemovedFuse):
	    // fuse retired from the schema
	case types.IsNotPresent(err):
	    // option string missing, or already patched
	}

# Effectiveness

Patching is best effort. Chromium, Electron and Node.js may change their
argument parsers or flag tables at any time, and code paths that never
reference the patched strings are unaffected. Prefer fuses where they exist.
*/
package hardener
