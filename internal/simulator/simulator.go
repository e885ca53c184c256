// Package simulator is a development stand-in for the sensor API. It serves
// the same REST endpoints as the real backend from a random-walk model of
// the ADC channels and the temperature probe.
package simulator

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"water_dashboard/internal/calibration"
	"water_dashboard/internal/logger"
)

// ----------- Model constants -----------
const (
	AdcMax       = 255.0 // 8-bit converter full scale
	DefaultVRef  = 3.3   // converter reference voltage
	AdcStartRaw  = 128.0 // mid-scale
	AdcStepSigma = 1.5   // counts per tick
	TempStartC   = 22.0
	TempStepC    = 0.05
	TempMinC     = 5.0
	TempMaxC     = 35.0

	DefaultTick = 2 * time.Second
)

// channel order in Simulator.raw
const (
	chPH = iota
	chTDS
	chTurbidity
	numChannels
)

// DefaultCalibration maps mid-scale voltages onto plausible water readings.
// Entries loaded from a calibration file take precedence.
var DefaultCalibration = calibration.Table{
	calibration.SensorPH:        {A: 3.0, B: 2.0},
	calibration.SensorTDS:       {A: 300.0, B: 0},
	calibration.SensorTurbidity: {A: 2.0, B: 0},
}

// Config tunes the simulator.
type Config struct {
	VRef float64
	// NullProbability is the chance that /api/sensors reports a given field as
	// null, which makes dashboard clients use the single-metric endpoints.
	NullProbability float64
	Calibration     calibration.Table
	Seed            int64
}

// Readings is one snapshot of calibrated, rounded values.
type Readings struct {
	PH          float64
	TDS         float64
	Turbidity   float64
	Temperature float64
}

// Simulator holds the sensor model and the relay positions.
type Simulator struct {
	mu    sync.Mutex
	raw   [numChannels]float64
	tempC float64
	pump  bool
	valve bool
	rnd   *rand.Rand

	vref     float64
	nullProb float64
	cal      calibration.Table
	log      *logger.Logger
}

// New returns a simulator at mid-scale with both relays off.
func New(cfg Config, log *logger.Logger) *Simulator {
	if cfg.VRef <= 0 {
		cfg.VRef = DefaultVRef
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if log == nil {
		log = logger.Nop()
	}

	cal := calibration.Table{}
	for k, v := range DefaultCalibration {
		cal[k] = v
	}
	for k, v := range cfg.Calibration {
		cal[k] = v
	}

	s := &Simulator{
		tempC:    TempStartC,
		rnd:      rand.New(rand.NewSource(cfg.Seed)),
		vref:     cfg.VRef,
		nullProb: clamp(cfg.NullProbability, 0, 1),
		cal:      cal,
		log:      log,
	}
	for i := range s.raw {
		s.raw[i] = AdcStartRaw
	}
	return s
}

// Run advances the model every tick until ctx is canceled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Step()
		}
	}
}

// Step advances the random walk by one tick.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.raw {
		s.raw[i] = clamp(s.raw[i]+s.rnd.NormFloat64()*AdcStepSigma, 0, AdcMax)
	}
	s.tempC = clamp(s.tempC+s.rnd.NormFloat64()*TempStepC, TempMinC, TempMaxC)
}

// Readings returns calibrated values, pH rounded to 3 decimals and the rest
// to 2.
func (s *Simulator) Readings() Readings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readings()
}

func (s *Simulator) readings() Readings {
	return Readings{
		PH:          round(s.cal.Apply(calibration.SensorPH, s.voltage(chPH)), 3),
		TDS:         round(s.cal.Apply(calibration.SensorTDS, s.voltage(chTDS)), 2),
		Turbidity:   round(s.cal.Apply(calibration.SensorTurbidity, s.voltage(chTurbidity)), 2),
		Temperature: round(s.cal.Apply(calibration.SensorTemperature, s.tempC), 2),
	}
}

// voltage converts a channel's raw count the way the ADC driver does.
func (s *Simulator) voltage(ch int) float64 {
	return round(math.Round(s.raw[ch])/AdcMax*s.vref, 4)
}

// dropField reports whether the aggregate should report one field as null.
func (s *Simulator) dropField() bool {
	return s.nullProb > 0 && s.rnd.Float64() < s.nullProb
}

func (s *Simulator) Pump() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pump
}

func (s *Simulator) Valve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valve
}

// SetPump switches the pump relay and returns the new position.
func (s *Simulator) SetPump(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pump = on
	s.log.Infow("relay_switched", "relay", "pump", "on", on)
	return s.pump
}

// SetValve switches the valve relay and returns the new position.
func (s *Simulator) SetValve(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valve = on
	s.log.Infow("relay_switched", "relay", "valve", "on", on)
	return s.valve
}

// helpers
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
