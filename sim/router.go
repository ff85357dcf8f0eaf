package sim

import "strings"

// Route forwards an event to another model at the same instant.
type Route struct {
	Target string `yaml:"target"`
	Event  string `yaml:"event"`
}

// Delivery is one (model, event) pair produced by expanding a route table.
type Delivery struct {
	Target string
	Event  string
}

type routeKey struct {
	source string
	event  string
}

// keyOf folds the event name: events are matched case-insensitively, as
// every domain parses them.
func keyOf(source, event string) routeKey {
	return routeKey{source: source, event: strings.ToLower(event)}
}

// Router owns the cross-model event routing table: an event injected into a
// source model is also delivered to every route registered for it.
type Router struct {
	table map[routeKey][]Route
}

// NewRouter creates an empty routing table.
func NewRouter() *Router {
	return &Router{table: make(map[routeKey][]Route)}
}

// Add registers routes for events named event injected into source.
func (r *Router) Add(source, event string, routes ...Route) {
	k := keyOf(source, event)
	r.table[k] = append(r.table[k], routes...)
}

// Routes returns the routes registered for (source, event).
func (r *Router) Routes(source, event string) []Route {
	if r == nil {
		return nil
	}
	return r.table[keyOf(source, event)]
}

// Len returns the number of (source, event) entries.
func (r *Router) Len() int {
	if r == nil {
		return 0
	}
	return len(r.table)
}

// Expand returns the injected pair followed by every pair reachable through
// the table, breadth first. Each pair appears once, so cycles terminate.
func (r *Router) Expand(target, event string) []Delivery {
	out := []Delivery{{Target: target, Event: event}}
	seen := map[routeKey]bool{keyOf(target, event): true}
	for i := 0; i < len(out); i++ {
		for _, rt := range r.Routes(out[i].Target, out[i].Event) {
			k := keyOf(rt.Target, rt.Event)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, Delivery{Target: rt.Target, Event: rt.Event})
		}
	}
	return out
}
