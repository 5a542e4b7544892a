// Package dispatcher is the campaign console: it routes command lines such
// as "debug_missionadd recon" to registered handlers.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrEmptyLine      = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// CmdList lists the registered commands with their usage.
const CmdList = "cmdlist"

// Event is a console command: a name followed by whitespace separated
// arguments.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*command)

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *command) {
		c.logged = true
	}
}

// Usage documents the arguments of a command. Calls with fewer than min
// arguments are rejected with ErrUsage before the handler runs.
func Usage(args string, min int) Option {
	return func(c *command) {
		c.usage = args
		c.minArgs = min
	}
}

type command struct {
	name    string
	handler HandlerFunc
	usage   string
	minArgs int
	logged  bool
}

// Dispatcher routes events to registered handlers. Handlers run on the
// caller's goroutine.
type Dispatcher struct {
	commands map[string]*command
	logger   Logger

	executed metric.Int64Counter
	duration metric.Float64Histogram
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		commands: make(map[string]*command),
		logger:   logger,
	}

	m := meter()
	var err error
	d.executed, err = m.Int64Counter(
		"console.commands",
		metric.WithDescription("Console commands executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command counter: %w", err)
	}
	d.duration, err = m.Float64Histogram(
		"console.command.duration",
		metric.WithDescription("Console command run time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	d.Register(CmdList, func(Event) (any, error) {
		return d.List(), nil
	})
	return d, nil
}

// Register adds a handler for the given command, replacing any previous one.
func (d *Dispatcher) Register(name string, h HandlerFunc, opts ...Option) {
	c := &command{name: name, handler: h}
	for _, opt := range opts {
		opt(c)
	}
	d.commands[name] = c
}

// List returns "name usage" for every command, sorted by name.
func (d *Dispatcher) List() []string {
	out := make([]string, 0, len(d.commands))
	for name, c := range d.commands {
		out = append(out, strings.TrimSpace(name+" "+c.usage))
	}
	slices.Sort(out)
	return out
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	c, ok := d.commands[e.Command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	if len(e.Args) < c.minArgs {
		return nil, fmt.Errorf("%w: %s %s", ErrUsage, c.name, c.usage)
	}

	start := time.Now()
	if c.logged {
		d.logger.Debug("console command", "command", c.name, "args", e.Args)
	}
	result, err := c.handler(e)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if c.logged {
			d.logger.Error("console command failed", "command", c.name, "duration", elapsed, "error", err)
		}
	}
	attrs := metric.WithAttributes(attribute.String("command", c.name), attribute.String("outcome", outcome))
	d.executed.Add(context.Background(), 1, attrs)
	d.duration.Record(context.Background(), float64(elapsed.Microseconds())/1000, attrs)
	return result, err
}

// ParseLine splits a console line into an event.
func ParseLine(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Event{}, ErrEmptyLine
	}
	return Event{Command: fields[0], Args: fields[1:], Timestamp: time.Now()}, nil
}

// Execute parses a command line and dispatches it.
func (d *Dispatcher) Execute(line string) error {
	e, err := ParseLine(line)
	if err != nil {
		return err
	}
	_, err = d.Dispatch(e)
	return err
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.commands[command]
	return ok
}
