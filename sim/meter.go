package sim

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// MeterReading is a snapshot of the household meter.
type MeterReading struct {
	At                 Instant `json:"at_ticks"`
	ConsumptionAmperes float64 `json:"consumption_amperes"`
	ProductionWatts    float64 `json:"production_watts"`
	ConsumedWh         float64 `json:"consumed_wh"`
	ProducedWh         float64 `json:"produced_wh"`
}

// Meter aggregates the exported values of the models it observes. It only
// reads models: consumption (amperes) and production (watts) are summed
// separately and integrated into separate energy totals, never netted.
type Meter struct {
	mu        sync.RWMutex
	consumers []Model
	producers []Model

	started bool
	closed  bool
	last    Instant // instant of the last sample

	// power held since the last sample
	consumptionW float64
	productionW  float64
	// values observed at the last sample
	consumptionA    float64
	productionWatts float64

	consumedWh float64
	producedWh float64
}

// NewMeter creates a meter observing no model.
func NewMeter() *Meter {
	return &Meter{}
}

// Observe registers models by role. Observer-role models are ignored.
func (mt *Meter) Observe(models ...Model) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	for _, m := range models {
		switch m.Role() {
		case RoleConsumer:
			mt.consumers = append(mt.consumers, m)
		case RoleProducer:
			mt.producers = append(mt.producers, m)
		}
	}
}

// CurrentConsumption returns the sum of the consumers' current draws in amperes.
// It does not step any model: values may be stale until models are resolved.
func (mt *Meter) CurrentConsumption() float64 {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	var sum float64
	for _, m := range mt.consumers {
		sum += m.Read().Value
	}
	return sum
}

// CurrentProduction returns the sum of the producers' outputs in watts.
func (mt *Meter) CurrentProduction() float64 {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	var sum float64
	for _, m := range mt.producers {
		sum += m.Read().Value
	}
	return sum
}

// Start opens the integration window at t.
func (mt *Meter) Start(t Instant) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.started = true
	mt.closed = false
	mt.last = t
	mt.consumedWh, mt.producedWh = 0, 0
	mt.refresh()
}

// Sample integrates the power held since the previous sample up to t, then
// reads every observed model again.
func (mt *Meter) Sample(t Instant) MeterReading {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.sample(t)
	return mt.snapshot()
}

// Close integrates up to t and stops the meter. Later samples are ignored.
func (mt *Meter) Close(t Instant) MeterReading {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.sample(t)
	mt.closed = true
	return mt.snapshot()
}

// Snapshot returns the meter state as of the last sample.
func (mt *Meter) Snapshot() MeterReading {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return mt.snapshot()
}

func (mt *Meter) sample(t Instant) {
	switch {
	case mt.closed:
		return
	case !mt.started:
		mt.started = true
		mt.last = t
		mt.refresh()
		return
	case t < mt.last:
		logrus.Warnf("meter: sample at %s precedes last sample %s, ignored", t, mt.last)
		return
	}
	h := t.Sub(mt.last).Hours()
	mt.consumedWh += mt.consumptionW * h
	mt.producedWh += mt.productionW * h
	mt.last = t
	mt.refresh()
}

// refresh must be called with mu held.
func (mt *Meter) refresh() {
	mt.consumptionW, mt.consumptionA = 0, 0
	for _, m := range mt.consumers {
		v := m.Read().Value
		mt.consumptionA += v
		mt.consumptionW += m.Watts(v)
	}
	mt.productionW, mt.productionWatts = 0, 0
	for _, m := range mt.producers {
		v := m.Read().Value
		mt.productionWatts += v
		mt.productionW += m.Watts(v)
	}
}

func (mt *Meter) snapshot() MeterReading {
	return MeterReading{
		At:                 mt.last,
		ConsumptionAmperes: mt.consumptionA,
		ProductionWatts:    mt.productionWatts,
		ConsumedWh:         mt.consumedWh,
		ProducedWh:         mt.producedWh,
	}
}
