package types

import "strconv"

// CommandType defines the navigation command sent to a running tour.
type CommandType string

const (
	CommandNext       CommandType = "next"        // CommandNext advances one step.
	CommandPrevious   CommandType = "previous"    // CommandPrevious goes back one step.
	CommandGoTo       CommandType = "goto"        // CommandGoTo jumps to a 1-based position.
	CommandGoToNumber CommandType = "goto_number" // CommandGoToNumber jumps to a declared step number.
	CommandRefresh    CommandType = "refresh"     // CommandRefresh re-measures the highlight.
	CommandExit       CommandType = "exit"        // CommandExit tears the tour down.
)

// Command represents a navigation request from an executor to a tour.
type Command struct {
	// Metadata holds optional additional information about the command.
	Metadata map[string]interface{}

	// Type indicates the kind of command.
	Type CommandType

	// Step is the target for goto commands.
	Step int
}

// NewCommand creates a command without an argument.
func NewCommand(t CommandType) *Command {
	return &Command{
		Type:     t,
		Metadata: make(map[string]interface{}),
	}
}

// NewGoToCommand creates a goto command for a 1-based position.
func NewGoToCommand(step int) *Command {
	return &Command{
		Type:     CommandGoTo,
		Step:     step,
		Metadata: make(map[string]interface{}),
	}
}

// NewGoToNumberCommand creates a goto command for a declared step number.
func NewGoToNumberCommand(number int) *Command {
	return &Command{
		Type:     CommandGoToNumber,
		Step:     number,
		Metadata: make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the command and returns it for chaining.
func (c *Command) WithMetadata(key string, value interface{}) *Command {
	if c.Metadata == nil {
		c.Metadata = make(map[string]interface{})
	}
	c.Metadata[key] = value
	return c
}

// String renders the command for logs.
func (c *Command) String() string {
	switch c.Type {
	case CommandGoTo, CommandGoToNumber:
		return string(c.Type) + "(" + strconv.Itoa(c.Step) + ")"
	default:
		return string(c.Type)
	}
}
