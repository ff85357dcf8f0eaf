package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hemsim/hemsim/sim/appliance"
	"github.com/hemsim/hemsim/sim/household"
	"github.com/hemsim/hemsim/sim/scenario"
)

// loadHousehold reads path, or returns the default household when path is empty.
func loadHousehold(path string) (*household.Config, error) {
	if path == "" {
		return household.Default(), nil
	}
	return household.Load(path)
}

// loadScenario reads path, or returns an empty scenario when path is empty.
func loadScenario(path string) (*scenario.Spec, error) {
	if path == "" {
		return &scenario.Spec{}, nil
	}
	return scenario.LoadSpec(path)
}

// applianceDoc describes one appliance kind for the appliances command.
type applianceDoc struct {
	Kind     string           `yaml:"kind"`
	Events   []string         `yaml:"events"`
	Defaults appliance.Params `yaml:"defaults"`
}

// appliancesCmd lists the appliance kinds with their events and default parameters
var appliancesCmd = &cobra.Command{
	Use:   "appliances",
	Short: "List appliance kinds, their events in priority order and their default parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := make([]applianceDoc, 0, len(appliance.Kinds()))
		for _, kind := range appliance.Kinds() {
			events, _ := appliance.Events(kind)
			defaults, _ := appliance.Defaults(kind)
			docs = append(docs, applianceDoc{Kind: kind, Events: events, Defaults: defaults})
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("encoding appliance list: %w", err)
		}
		return enc.Close()
	},
}
