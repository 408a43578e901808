package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aretw0/wellplan/pkg/domain"
)

// EnvPrefix starts the name of every variable passed to a driver.
const EnvPrefix = "WELLPLAN_"

// Wildcard is the driver key used for command types without their own driver.
const Wildcard domain.CommandType = "*"

// Dispatcher hands each command to an allow-listed driver executable.
//
// Command parameters travel as environment variables (WELLPLAN_TYPE, WELLPLAN_VOLUME, ...), never
// as arguments, so protocol values cannot inject flags. A non-zero exit fails the command and
// the stderr of the driver ends up in the error.
type Dispatcher struct {
	registry map[domain.CommandType]DriverConfig
	baseDir  string
	strict   bool
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDrivers populates the allow-list from a loaded config.
func WithDrivers(drivers map[domain.CommandType]DriverConfig) DispatcherOption {
	return func(d *Dispatcher) {
		for _, cfg := range drivers {
			d.Register(cfg)
		}
	}
}

// WithBaseDir sets the working directory for executed drivers.
func WithBaseDir(dir string) DispatcherOption {
	return func(d *Dispatcher) {
		d.baseDir = dir
	}
}

// WithStrict makes commands without a driver fail instead of being skipped.
func WithStrict(strict bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.strict = strict
	}
}

// NewDispatcher creates a new process Dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: make(map[domain.CommandType]DriverConfig),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds a trusted driver to the allow-list.
func (d *Dispatcher) Register(cfg DriverConfig) {
	d.registry[cfg.Command] = cfg
}

// Dispatch runs the driver registered for cmd.Type and waits for it to exit.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd domain.Command) error {
	driver, ok := d.registry[cmd.Type]
	if !ok {
		driver, ok = d.registry[Wildcard]
	}
	if !ok {
		if d.strict {
			return fmt.Errorf("no driver registered for %s", cmd.Type)
		}
		return nil
	}

	proc := exec.CommandContext(ctx, driver.Exec, driver.Args...)
	proc.Dir = d.baseDir
	proc.Env = append(proc.Environ(), Env(cmd)...)
	for k, v := range driver.Environment {
		proc.Env = append(proc.Env, k+"="+v)
	}

	var stderr bytes.Buffer
	proc.Stderr = &stderr

	if err := proc.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("driver %s failed: %w: %s", driver.Exec, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Env renders the parameters of cmd as KEY=value pairs. Unset parameters are omitted.
func Env(cmd domain.Command) []string {
	env := []string{
		EnvPrefix + "TYPE=" + string(cmd.Type),
		EnvPrefix + "STEP=" + strconv.Itoa(cmd.Step),
	}
	add := func(key, val string) {
		if val != "" {
			env = append(env, EnvPrefix+key+"="+val)
		}
	}
	num := func(v float64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	add("POOL", cmd.Pool)
	if cmd.Well != nil {
		add("RESERVOIR", cmd.Well.Reservoir)
		add("WELL_INDEX", strconv.Itoa(cmd.Well.Index))
		add("WELL", cmd.Well.Label)
	}
	add("TARGET", cmd.Target)
	add("VOLUME", num(cmd.Volume))
	add("HEIGHT", num(cmd.Height))
	if cmd.Cycles > 0 {
		add("CYCLES", strconv.Itoa(cmd.Cycles))
	}
	add("SECONDS", num(cmd.Seconds))
	add("MESSAGE", cmd.Message)
	return env
}
