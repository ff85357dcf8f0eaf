package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hemsim/hemsim/sim/trace"
)

// Report is the end-of-run snapshot of one model.
type Report struct {
	ModelID string  `json:"model_id"`
	Domain  string  `json:"domain"`
	Role    string  `json:"role"`
	State   string  `json:"final_state"`
	TotalWh float64 `json:"total_wh"` // energy consumed, produced or delivered
}

// RunReport summarizes a whole simulation run.
type RunReport struct {
	RunID      string              `json:"run_id"`
	StartHours float64             `json:"start_hours"`
	EndHours   float64             `json:"end_hours"`
	Models     []Report            `json:"models"`
	ConsumedWh float64             `json:"consumed_wh"`
	ProducedWh float64             `json:"produced_wh"`
	Trace      *trace.TraceSummary `json:"trace,omitempty"`
}

// NewRunReport collects the final reports of models, sorted by model id, and
// the meter totals.
func NewRunReport(start, end Instant, models []Model, meter MeterReading) *RunReport {
	reports := make([]Report, 0, len(models))
	for _, m := range models {
		reports = append(reports, m.Report())
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ModelID < reports[j].ModelID })
	return &RunReport{
		RunID:      uuid.NewString(),
		StartHours: start.Hours(),
		EndHours:   end.Hours(),
		Models:     reports,
		ConsumedWh: meter.ConsumedWh,
		ProducedWh: meter.ProducedWh,
	}
}

// Find returns the report of model id.
func (r *RunReport) Find(id string) (Report, bool) {
	for _, rep := range r.Models {
		if rep.ModelID == id {
			return rep, true
		}
	}
	return Report{}, false
}

// Print displays the run totals on stdout.
func (r *RunReport) Print() {
	fmt.Println("=== Simulation Report ===")
	fmt.Printf("Run                  : %s\n", r.RunID)
	fmt.Printf("Simulated span       : %.3fh -> %.3fh\n", r.StartHours, r.EndHours)
	for _, rep := range r.Models {
		fmt.Printf("  %-20s %-17s %-9s %-13s %12.3f Wh\n", rep.ModelID, rep.Domain, rep.Role, rep.State, rep.TotalWh)
	}
	fmt.Printf("Consumed             : %.3f Wh\n", r.ConsumedWh)
	fmt.Printf("Produced             : %.3f Wh\n", r.ProducedWh)
}

// SaveResults writes the report as indented JSON to outputFilePath, or to
// stdout when the path is empty.
func (r *RunReport) SaveResults(outputFilePath string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	if outputFilePath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputFilePath, data, 0644); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	logrus.Infof("Run report written to %s", outputFilePath)
	return nil
}
