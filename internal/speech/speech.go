// Package speech turns resolved phrases into audible output. Dispatch is
// strictly best-effort: a failed or unavailable engine never surfaces an
// error to the caller of a trigger.
package speech

import "log"

// Engine produces audible output for text in a given language.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string

	// Available reports whether the engine can run on this host.
	Available() bool

	// Speak voices the text. Errors are reported to the dispatcher only.
	Speak(text, language string) error
}

// Dispatcher tries its engines in order until one succeeds. It never returns
// an error and silently ignores empty text.
type Dispatcher struct {
	engines []Engine
}

// NewDispatcher creates a dispatcher over the given engines, tried in order.
func NewDispatcher(engines ...Engine) *Dispatcher {
	return &Dispatcher{engines: engines}
}

// Speak voices text in the requested language, best effort.
func (d *Dispatcher) Speak(text, language string) {
	if text == "" {
		return
	}

	for _, engine := range d.engines {
		if !engine.Available() {
			continue
		}
		if err := engine.Speak(text, language); err != nil {
			log.Printf("speech: %s engine failed: %v", engine.Name(), err)
			continue
		}
		return
	}
}
