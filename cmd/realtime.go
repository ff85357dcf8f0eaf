package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hemsim/hemsim/sim"
	"github.com/hemsim/hemsim/sim/publish"
	"github.com/hemsim/hemsim/sim/realtime"
	"github.com/hemsim/hemsim/sim/telemetry"
)

var (
	// CLI flags for realtime
	acceleration     float64 // Simulated seconds per wall-clock second
	meterPeriodHours float64 // Simulated time between meter samples, in hours
	metricsAddr      string  // Listen address of the Prometheus endpoint
	mqttBroker       string  // MQTT broker URL
	mqttTopic        string  // MQTT topic prefix
)

// realtimeCmd runs the household against an accelerated wall clock
var realtimeCmd = &cobra.Command{
	Use:   "realtime",
	Short: "Run the household against an accelerated wall clock, accepting commands while running",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runRealtime(ctx)
	},
}

func runRealtime(ctx context.Context) error {
	house, err := loadHousehold(householdPath)
	if err != nil {
		return err
	}
	spec, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}
	end, err := resolveHorizon(horizonHours, spec.Horizon())
	if err != nil {
		return err
	}
	if end == 0 {
		return fmt.Errorf("realtime runs need an end: set --horizon-hours or end_hours in the scenario")
	}

	var sink *publish.Sink
	var client *publish.MQTTClient
	if mqttBroker != "" {
		client = publish.NewMQTTClient(publish.MQTTConfig{Broker: mqttBroker, QoS: 1})
		if err := client.Connect(); err != nil {
			return err
		}
		defer client.Disconnect()
		sink = publish.NewSink(client, mqttTopic)
	}

	cfg := realtime.Config{Acceleration: acceleration, MeterPeriod: sim.Hours(meterPeriodHours)}
	if sink != nil {
		cfg.OnSample = sink.OnSample
	}
	runner, err := realtime.NewRunner(cfg)
	if err != nil {
		return err
	}
	if err := house.Build(runner); err != nil {
		return err
	}
	if err := spec.Apply(runner); err != nil {
		return err
	}
	if client != nil {
		if err := publish.ListenCommands(client, mqttTopic+"/command", runner); err != nil {
			return err
		}
	}
	if metricsAddr != "" {
		shutdown := serveMetrics(metricsAddr, telemetry.NewCollector(runner))
		defer shutdown()
	}

	report, err := runner.Run(ctx, end)
	if err != nil {
		return err
	}
	report.Print()
	if sink != nil {
		if err := sink.PublishReport(report); err != nil {
			logrus.Warnf("run report not published: %v", err)
		}
	}
	return report.SaveResults(resultsPath)
}

// serveMetrics exposes collector on addr/metrics until the returned function is called.
func serveMetrics(addr string, collector prometheus.Collector) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collector)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("metrics endpoint: %v", err)
		}
	}()
	logrus.Infof("Serving metrics on %s/metrics", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func init() {
	realtimeCmd.Flags().Float64Var(&acceleration, "acceleration", 3600, "Simulated seconds per wall-clock second")
	realtimeCmd.Flags().Float64Var(&meterPeriodHours, "meter-period", 0.25, "Simulated hours between meter samples (0: only at the end)")
	realtimeCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Listen address of the Prometheus endpoint, e.g. :9108 (default: disabled)")
	realtimeCmd.Flags().StringVar(&mqttBroker, "mqtt-broker", "", "MQTT broker URL, e.g. tcp://localhost:1883 (default: disabled)")
	realtimeCmd.Flags().StringVar(&mqttTopic, "mqtt-topic", "hemsim", "MQTT topic prefix")
}
