package publish

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hemsim/hemsim/sim"
)

// Sink publishes meter samples on <prefix>/meter and run reports on
// <prefix>/report, as JSON.
type Sink struct {
	pub    Publisher
	prefix string
}

// NewSink creates a sink publishing under prefix.
func NewSink(pub Publisher, prefix string) *Sink {
	return &Sink{pub: pub, prefix: strings.TrimSuffix(prefix, "/")}
}

// MeterTopic is the topic meter samples are published on.
func (s *Sink) MeterTopic() string { return s.prefix + "/meter" }

// ReportTopic is the topic run reports are published on.
func (s *Sink) ReportTopic() string { return s.prefix + "/report" }

// PublishReading publishes one meter sample.
func (s *Sink) PublishReading(r sim.MeterReading) error {
	return s.publishJSON(s.MeterTopic(), r)
}

// PublishReport publishes the report of a finished run.
func (s *Sink) PublishReport(r *sim.RunReport) error {
	return s.publishJSON(s.ReportTopic(), r)
}

// OnSample publishes r and logs a failure. It fits realtime.Config.OnSample.
func (s *Sink) OnSample(r sim.MeterReading) {
	if err := s.PublishReading(r); err != nil {
		logrus.Warnf("meter sample at %s not published: %v", r.At, err)
	}
}

func (s *Sink) publishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", topic, err)
	}
	return s.pub.Publish(topic, payload)
}
