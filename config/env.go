package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment keys understood by LoadEnv.
const (
	EnvWidth       = "CAVITY_WIDTH"
	EnvHeight      = "CAVITY_HEIGHT"
	EnvLidVelocity = "CAVITY_LID_VELOCITY"
	EnvReynolds    = "CAVITY_REYNOLDS"
	EnvIterations  = "CAVITY_ITERATIONS"
	EnvWorkers     = "CAVITY_WORKERS"
	EnvCheckEvery  = "CAVITY_CHECK_EVERY"
	EnvLogEvery    = "CAVITY_LOG_EVERY"
	EnvRecordEvery = "CAVITY_RECORD_EVERY"
)

// LoadEnv overlays values from dotenv files and from the process environment
// onto base. Files that do not exist are skipped. Process environment
// variables win over file values.
func LoadEnv(base Config, files ...string) (Config, error) {
	values := map[string]string{}

	for _, f := range files {
		fileValues, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return base, fmt.Errorf("reading %s: %w", f, err)
		}

		for k, v := range fileValues {
			values[k] = v
		}
	}

	for _, k := range envKeys() {
		if v, ok := os.LookupEnv(k); ok {
			values[k] = v
		}
	}

	return Apply(base, values)
}

// Apply overlays the given key/value pairs onto base.
func Apply(base Config, values map[string]string) (Config, error) {
	c := base

	ints := map[string]*int{
		EnvWidth:       &c.Width,
		EnvHeight:      &c.Height,
		EnvIterations:  &c.Iterations,
		EnvWorkers:     &c.Workers,
		EnvCheckEvery:  &c.CheckEvery,
		EnvLogEvery:    &c.LogEvery,
		EnvRecordEvery: &c.RecordEvery,
	}
	for key, dst := range ints {
		v, ok := values[key]
		if !ok {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", key, err)
		}

		*dst = n
	}

	floats := map[string]*float64{
		EnvLidVelocity: &c.LidVelocity,
		EnvReynolds:    &c.Reynolds,
	}
	for key, dst := range floats {
		v, ok := values[key]
		if !ok {
			continue
		}

		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return base, fmt.Errorf("%s: %w", key, err)
		}

		*dst = x
	}

	return c, nil
}

func envKeys() []string {
	return []string{
		EnvWidth, EnvHeight, EnvLidVelocity, EnvReynolds, EnvIterations,
		EnvWorkers, EnvCheckEvery, EnvLogEvery, EnvRecordEvery,
	}
}
