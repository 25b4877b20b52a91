package event

import "sync"

// Recorder keeps every notification in memory. Tests use it to assert on
// what a service emitted.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Name: name, Payload: payload})
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Names returns the recorded event names in emission order.
func (r *Recorder) Names() []string {
	events := r.Events()

	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}

	return names
}

// Count returns how many events with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0

	for _, e := range r.Events() {
		if e.Name == name {
			n++
		}
	}

	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}
