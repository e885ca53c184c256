// Package calibration fits and stores linear sensor calibrations of the form
// value = a*measured + b.
package calibration

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Sensor keys used in the calibration file.
const (
	SensorPH          = "ph"
	SensorTDS         = "tds"
	SensorTurbidity   = "turbidity"
	SensorTemperature = "temp"
)

// Sensors lists the keys that may be calibrated.
var Sensors = []string{SensorPH, SensorTDS, SensorTurbidity, SensorTemperature}

var (
	ErrLengthMismatch = errors.New("measured and reference must have the same length")
	ErrNoPoints       = errors.New("need at least one calibration point")
)

// Linear maps a raw measurement onto reference units.
type Linear struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

// Identity leaves measurements unchanged.
var Identity = Linear{A: 1, B: 0}

// UnmarshalYAML fills fields missing from the entry from Identity.
func (l *Linear) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		A *float64 `yaml:"a"`
		B *float64 `yaml:"b"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*l = Identity
	if raw.A != nil {
		l.A = *raw.A
	}
	if raw.B != nil {
		l.B = *raw.B
	}
	return nil
}

func (l Linear) Apply(measured float64) float64 {
	return l.A*measured + l.B
}

// Fit returns the least-squares line reference = a*measured + b. When every
// measured value is equal the slope is undefined and an offset-only fit
// (a = 0, b = mean(reference)) is returned.
func Fit(measured, reference []float64) (Linear, error) {
	if len(measured) != len(reference) {
		return Linear{}, ErrLengthMismatch
	}
	n := float64(len(measured))
	if n == 0 {
		return Linear{}, ErrNoPoints
	}

	var xm, ym float64
	for i := range measured {
		xm += measured[i]
		ym += reference[i]
	}
	xm /= n
	ym /= n

	var num, den float64
	for i := range measured {
		dx := measured[i] - xm
		num += dx * (reference[i] - ym)
		den += dx * dx
	}
	if den == 0 {
		return Linear{A: 0, B: ym}, nil
	}
	a := num / den
	return Linear{A: a, B: ym - a*xm}, nil
}

// Table holds one calibration per sensor key.
type Table map[string]Linear

// Apply calibrates v for sensor, or returns it unchanged when the sensor has
// no entry.
func (t Table) Apply(sensor string, v float64) float64 {
	if l, ok := t[sensor]; ok {
		return l.Apply(v)
	}
	return v
}

// Load reads a calibration file. A missing file yields an empty table.
func Load(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read calibration %s: %w", path, err)
	}
	t := Table{}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse calibration %s: %w", path, err)
	}
	return t, nil
}

// Save writes t to path, creating the parent directory if needed.
func Save(path string, t Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create calibration dir: %w", err)
		}
	}
	b, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write calibration %s: %w", path, err)
	}
	return nil
}

// ReadPairs reads "<measured> <reference>" lines until an empty line or EOF.
func ReadPairs(r io.Reader) (measured, reference []float64, err error) {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			break
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("line %d: need two numbers", line)
		}
		m, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: measured: %w", line, err)
		}
		ref, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: reference: %w", line, err)
		}
		measured = append(measured, m)
		reference = append(reference, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return measured, reference, nil
}
