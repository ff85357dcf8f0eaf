// Package household loads the description of a household: its appliances,
// their parameters and the routes coupling them.
package household

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hemsim/hemsim/sim"
	"github.com/hemsim/hemsim/sim/appliance"
)

// ThermalSuffix is appended to a heater id to name its thermal twin.
const ThermalSuffix = ".thermal"

// Config is the household description.
type Config struct {
	// Voltage applies to every appliance that does not set its own.
	Voltage float64 `yaml:"voltage,omitempty"`
	// Twins adds a thermal twin to every heater, following its commands.
	Twins      bool            `yaml:"twins,omitempty"`
	Appliances []ApplianceSpec `yaml:"appliances"`
	Routes     []RouteSpec     `yaml:"routes,omitempty"`
}

// ApplianceSpec declares one appliance instance.
type ApplianceSpec struct {
	ID     string           `yaml:"id"`
	Kind   string           `yaml:"kind"`
	Params appliance.Params `yaml:"params,omitempty"`
}

// RouteSpec forwards Event received by Source to every target.
type RouteSpec struct {
	Source  string      `yaml:"source"`
	Event   string      `yaml:"event"`
	Targets []sim.Route `yaml:"targets"`
}

// Load reads and parses a YAML household file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading household config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML household description.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing household config: %w", err)
	}
	return &cfg, nil
}

// Default returns a household with one appliance of each kind and a thermal
// twin for the heater.
func Default() *Config {
	return &Config{
		Voltage: appliance.DefaultVoltage,
		Twins:   true,
		Appliances: []ApplianceSpec{
			{ID: "heater", Kind: appliance.KindHeater},
			{ID: "hair-dryer", Kind: appliance.KindHairDryer},
			{ID: "indoor-garden", Kind: appliance.KindIndoorGarden},
			{ID: "electric-blanket", Kind: appliance.KindElectricBlanket},
			{ID: "air-conditioner", Kind: appliance.KindAirConditioner},
			{ID: "refrigerator", Kind: appliance.KindRefrigerator},
			{ID: "solar-panel", Kind: appliance.KindSolarPanel},
		},
	}
}

// Validate checks ids, kinds, parameters and routes.
func (c *Config) Validate() error {
	if c.Voltage < 0 {
		return fmt.Errorf("voltage must be non-negative, got %f", c.Voltage)
	}
	if len(c.Appliances) == 0 {
		return fmt.Errorf("at least one appliance required")
	}
	kinds := make(map[string]string)
	for i, a := range c.Expanded() {
		prefix := fmt.Sprintf("appliance[%d]", i)
		if a.ID == "" {
			return fmt.Errorf("%s: empty id", prefix)
		}
		if _, dup := kinds[a.ID]; dup {
			return fmt.Errorf("%s: duplicate id %q", prefix, a.ID)
		}
		if _, err := appliance.Resolve(a.Kind, a.Params); err != nil {
			return fmt.Errorf("%s (%s): %w", prefix, a.ID, err)
		}
		kinds[a.ID] = a.Kind
	}
	for i, r := range c.expandedRoutes() {
		prefix := fmt.Sprintf("route[%d]", i)
		if err := checkEndpoint(kinds, r.Source, r.Event); err != nil {
			return fmt.Errorf("%s: source: %w", prefix, err)
		}
		if len(r.Targets) == 0 {
			return fmt.Errorf("%s: no targets", prefix)
		}
		for _, t := range r.Targets {
			if err := checkEndpoint(kinds, t.Target, t.Event); err != nil {
				return fmt.Errorf("%s: target: %w", prefix, err)
			}
		}
	}
	return nil
}

func checkEndpoint(kinds map[string]string, id, event string) error {
	kind, ok := kinds[id]
	if !ok {
		return fmt.Errorf("%q: %w", id, sim.ErrUnknownModel)
	}
	if !appliance.Accepts(kind, event) {
		events, _ := appliance.Events(kind)
		return fmt.Errorf("%s (%s) event %q; valid: %v: %w", id, kind, event, events, sim.ErrUnknownKind)
	}
	return nil
}

// Expanded returns the declared appliances with the household voltage applied
// and thermal twins appended.
func (c *Config) Expanded() []ApplianceSpec {
	out := make([]ApplianceSpec, 0, len(c.Appliances))
	var twins []ApplianceSpec
	for _, a := range c.Appliances {
		a.Params = c.withVoltage(a)
		out = append(out, a)
		if c.Twins && a.Kind == appliance.KindHeater {
			twins = append(twins, thermalTwin(a))
		}
	}
	return append(out, twins...)
}

func (c *Config) withVoltage(a ApplianceSpec) appliance.Params {
	defaults, ok := appliance.Defaults(a.Kind)
	if !ok || c.Voltage == 0 {
		return a.Params
	}
	if _, hasVoltage := defaults["voltage"]; !hasVoltage {
		return a.Params
	}
	if _, set := a.Params["voltage"]; set {
		return a.Params
	}
	p := make(appliance.Params, len(a.Params)+1)
	for k, v := range a.Params {
		p[k] = v
	}
	p["voltage"] = c.Voltage
	return p
}

func thermalTwin(heater ApplianceSpec) ApplianceSpec {
	twin := ApplianceSpec{ID: heater.ID + ThermalSuffix, Kind: appliance.KindHeaterThermal}
	if w, ok := heater.Params["heat_watts"]; ok {
		twin.Params = appliance.Params{"heat_watts": w}
	}
	return twin
}

func (c *Config) expandedRoutes() []RouteSpec {
	routes := append([]RouteSpec(nil), c.Routes...)
	if !c.Twins {
		return routes
	}
	events, _ := appliance.Events(appliance.KindHeater)
	for _, a := range c.Appliances {
		if a.Kind != appliance.KindHeater {
			continue
		}
		for _, ev := range events {
			routes = append(routes, RouteSpec{
				Source:  a.ID,
				Event:   ev,
				Targets: []sim.Route{{Target: a.ID + ThermalSuffix, Event: ev}},
			})
		}
	}
	return routes
}

// Target receives the models and routes of a household. *sim.Simulator and
// the real-time runner implement it.
type Target interface {
	AddModel(m sim.Model)
	Router() *sim.Router
}

// Build validates the household and registers its models and routes on s.
func (c *Config) Build(s Target) error {
	if err := c.Validate(); err != nil {
		return err
	}
	specs := c.Expanded()
	models := make(map[string]sim.Model, len(specs))
	for _, a := range specs {
		m, err := appliance.New(a.Kind, a.ID, a.Params)
		if err != nil {
			return fmt.Errorf("building %s: %w", a.ID, err)
		}
		s.AddModel(m)
		models[a.ID] = m
	}
	routes := c.expandedRoutes()
	for _, r := range routes {
		event, err := models[r.Source].CanonicalEvent(r.Event)
		if err != nil {
			return fmt.Errorf("route %s/%s: %w", r.Source, r.Event, err)
		}
		targets := make([]sim.Route, 0, len(r.Targets))
		for _, t := range r.Targets {
			name, err := models[t.Target].CanonicalEvent(t.Event)
			if err != nil {
				return fmt.Errorf("route %s/%s -> %s: %w", r.Source, r.Event, t.Target, err)
			}
			targets = append(targets, sim.Route{Target: t.Target, Event: name})
		}
		s.Router().Add(r.Source, event, targets...)
	}
	logrus.Infof("Household built: %d model(s), %d route(s)", len(specs), len(routes))
	return nil
}
