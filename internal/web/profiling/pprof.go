// Package profiling serves pprof endpoints next to the document routes.
//
// Profiles expose goroutine stacks and heap contents. Enable them only on
// servers that are not reachable from untrusted networks.
package profiling

import (
	"net/http"
	"net/http/pprof"
	"runtime"

	"github.com/go-chi/chi/v5"
)

// DefaultPath is where the profiling handler is usually mounted
const DefaultPath = "/debug/pprof"

// Config holds profiling configuration
type Config struct {
	// BlockRate sets the block profiling rate (0 = disabled)
	BlockRate int

	// MutexFraction sets the mutex profiling fraction (0 = disabled)
	MutexFraction int
}

// DefaultConfig returns default profiling configuration
func DefaultConfig() Config {
	return Config{
		BlockRate:     1,
		MutexFraction: 1,
	}
}

// Handler configures runtime sampling and returns the pprof routes, relative
// to wherever the handler is mounted
func Handler(config Config) http.Handler {
	runtime.SetBlockProfileRate(config.BlockRate)
	runtime.SetMutexProfileFraction(config.MutexFraction)

	r := chi.NewRouter()
	r.Get("/", pprof.Index)
	r.Get("/cmdline", pprof.Cmdline)
	r.Get("/profile", pprof.Profile)
	r.Get("/symbol", pprof.Symbol)
	r.Post("/symbol", pprof.Symbol)
	r.Get("/trace", pprof.Trace)

	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		r.Handle("/"+name, pprof.Handler(name))
	}

	return r
}
