// Command calibrate fits a linear calibration for one sensor from
// "<measured> <reference>" pairs read on stdin and stores it in the
// calibration file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"water_dashboard/internal/calibration"
)

func main() {
	sensor := flag.String("sensor", "", "sensor to calibrate: ph, tds, turbidity or temp")
	out := flag.String("out", getenv("CALIBRATION_FILE", "configs/calibration.yml"), "calibration file to update")
	flag.Parse()

	if err := run(*sensor, *out, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "calibrate:", err)
		os.Exit(1)
	}
}

func run(sensor, path string, in io.Reader, out io.Writer) error {
	if !slices.Contains(calibration.Sensors, sensor) {
		return fmt.Errorf("-sensor must be one of %v, got %q", calibration.Sensors, sensor)
	}

	fmt.Fprintf(out, "Calibrating %s. Enter one pair per line: <measured> <reference>. Empty line when done.\n", sensor)
	measured, reference, err := calibration.ReadPairs(in)
	if err != nil {
		return err
	}
	fit, err := calibration.Fit(measured, reference)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Fitted: value = %.6f * measured + %.6f\n", fit.A, fit.B)

	table, err := calibration.Load(path)
	if err != nil {
		return err
	}
	table[sensor] = fit
	if err := calibration.Save(path, table); err != nil {
		return err
	}
	fmt.Fprintln(out, "Saved to", path)
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
