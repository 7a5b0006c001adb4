// Package tui provides the terminal user interface for breathcheck.
//
// The App model routes between screens that mirror the mobile demo: login,
// register, home, test guide, the active analysis screen, success and failure
// results, trends and nurse contact.
//
// The active screen is the only one with behaviour beyond rendering. On entry it
// starts a sequencer run over the configured phase script; sequencer callbacks
// are queued on a per-run channel and read back into the program by a listener
// command, so they never block the bubbletea event loop. Natural completion
// shows the default outcome. Two hidden keys stand in for the demo's invisible
// tap corners:
//
//	[   force a successful result
//	]   force a failed result
//	esc cancel the run and return home
//
// Usage:
//
//	program, app := tui.NewProgram(tui.Options{Phases: phases.BreathTest()})
//	if _, err := program.Run(); err != nil { ... }
//	_ = app.LastResult()
package tui
