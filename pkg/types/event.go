package types

// TourEventType defines the type of event emitted by a tour.
type TourEventType string

const (
	EventTypeStarted      TourEventType = "started"       // EventTypeStarted indicates a tour collected its steps and attached its overlay.
	EventTypeBeforeChange TourEventType = "before_change" // EventTypeBeforeChange indicates a transition was accepted and is about to render.
	EventTypeStepShown    TourEventType = "step_shown"    // EventTypeStepShown indicates a step was rendered and its highlight moved.
	EventTypeStepPlaced   TourEventType = "step_placed"   // EventTypeStepPlaced indicates the tooltip was placed after the settle delay.
	EventTypeBlocked      TourEventType = "blocked"       // EventTypeBlocked indicates a previous() call was refused at the first step or a checkpoint.
	EventTypeResized      TourEventType = "resized"       // EventTypeResized indicates the viewport changed and layers were re-placed.
	EventTypeCompleted    TourEventType = "completed"     // EventTypeCompleted indicates the tour ran past its last step.
	EventTypeExited       TourEventType = "exited"        // EventTypeExited indicates the overlay was torn down.
	EventTypeError        TourEventType = "error"         // EventTypeError indicates a step failed to render.
)

// TourEvent represents an event emitted by a tour during execution.
type TourEvent struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// Error contains error information for error events.
	Error error

	// Placement is set on step_placed events.
	Placement *Placement

	// TourID identifies the tour instance that emitted the event.
	TourID string

	// Type indicates the kind of event.
	Type TourEventType

	// Selector is the CSS selector the step was defined with, when known.
	Selector string

	// StepIndex is the 0-based index into the collected steps.
	StepIndex int

	// StepNumber is the step's declared 1-based number.
	StepNumber int

	// StepCount is the number of collected steps.
	StepCount int

	// Progress is the progress bar percentage for the step.
	Progress float64
}

// Placement describes where a tooltip ended up.
type Placement struct {
	// Side is the resolved tooltip position, e.g. "bottom" or "floating".
	Side string

	// Arrow is the arrow orientation class suffix, empty for floating.
	Arrow string

	// Requested is the side the step asked for before auto resolution.
	Requested string
}

// NewStartedEvent creates a started event.
func NewStartedEvent(tourID string, stepCount int) *TourEvent {
	return &TourEvent{
		Type:      EventTypeStarted,
		TourID:    tourID,
		StepCount: stepCount,
		Metadata:  make(map[string]interface{}),
	}
}

// NewStepEvent creates a step-scoped event of the given type.
func NewStepEvent(eventType TourEventType, tourID string, index, number, count int) *TourEvent {
	e := &TourEvent{
		Type:       eventType,
		TourID:     tourID,
		StepIndex:  index,
		StepNumber: number,
		StepCount:  count,
		Metadata:   make(map[string]interface{}),
	}
	if count > 0 {
		e.Progress = float64(index+1) / float64(count) * 100
	}
	return e
}

// NewStepPlacedEvent creates a step_placed event.
func NewStepPlacedEvent(tourID string, index, number, count int, placement Placement) *TourEvent {
	e := NewStepEvent(EventTypeStepPlaced, tourID, index, number, count)
	e.Placement = &placement
	return e
}

// NewCompletedEvent creates a completed event.
func NewCompletedEvent(tourID string, stepCount int) *TourEvent {
	return &TourEvent{
		Type:      EventTypeCompleted,
		TourID:    tourID,
		StepCount: stepCount,
		Metadata:  make(map[string]interface{}),
	}
}

// NewExitedEvent creates an exited event.
func NewExitedEvent(tourID string) *TourEvent {
	return &TourEvent{
		Type:     EventTypeExited,
		TourID:   tourID,
		Metadata: make(map[string]interface{}),
	}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(tourID string, err error) *TourEvent {
	return &TourEvent{
		Type:     EventTypeError,
		TourID:   tourID,
		Error:    err,
		Metadata: make(map[string]interface{}),
	}
}

// WithSelector sets the selector and returns the event for chaining.
func (e *TourEvent) WithSelector(selector string) *TourEvent {
	e.Selector = selector
	return e
}

// WithMetadata adds metadata to the event and returns the event for chaining.
func (e *TourEvent) WithMetadata(key string, value interface{}) *TourEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// IsStepEvent returns true if this event refers to a specific step.
func (e *TourEvent) IsStepEvent() bool {
	return e.Type == EventTypeBeforeChange ||
		e.Type == EventTypeStepShown ||
		e.Type == EventTypeStepPlaced ||
		e.Type == EventTypeBlocked
}

// IsTerminalEvent returns true if the tour is no longer active after this event.
func (e *TourEvent) IsTerminalEvent() bool {
	return e.Type == EventTypeCompleted ||
		e.Type == EventTypeExited
}

// IsErrorEvent returns true if this is an error event.
func (e *TourEvent) IsErrorEvent() bool {
	return e.Type == EventTypeError
}
