// Package profile wires [github.com/pkg/profile] into the boba command.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o boba .
//	boba --pprof-mode=cpu run fib.boba
//	go tool pprof boba ~/.cache/boba/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Config.Start] always returns a no-op
// stopper, so callers never need their own build constraints.
//
// A profiler is described by a [Config] and adjusted with [WithMode],
// [WithPath], and [WithQuiet]:
//
//	cfg := profile.WithMode("heap")(profile.Config(func() (string, string, bool) {
//	    return "", "", false
//	}))
//	defer cfg.Start().Stop()
//
// The pprof build also imports [net/http/pprof] so hosts embedding the
// interpreter in a server get the /debug/pprof/ handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
