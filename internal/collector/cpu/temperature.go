package cpu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

var ErrNoTemperature = errors.New("no cpu temperature sensor found")

// Package level sensors in order of preference.
var packageSensorKeys = []string{
	"coretemp_package_id_0",
	"k10temp_tctl",
	"zenpower_tdie",
	"k10temp_tdie",
	"cpu_thermal",
	"coretemp_core_0",
}

// PackageTemperature returns the package or die temperature in Celsius.
func PackageTemperature(ctx context.Context) (float64, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	if len(temps) == 0 {
		if err != nil {
			return 0, fmt.Errorf("read sensors: %w", err)
		}
		return 0, ErrNoTemperature
	}

	if t, ok := pickPackageTemperature(temps); ok {
		return t, nil
	}

	return 0, ErrNoTemperature
}

func pickPackageTemperature(temps []sensors.TemperatureStat) (float64, bool) {
	for _, key := range packageSensorKeys {
		for _, t := range temps {
			if strings.Contains(strings.ToLower(t.SensorKey), key) && t.Temperature > 0 {
				return t.Temperature, true
			}
		}
	}

	return 0, false
}
