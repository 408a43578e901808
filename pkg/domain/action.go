package domain

// CommandType names a hardware action the host must perform.
type CommandType string

// Standard command types. The planner never executes these; it only fills in their parameters.
const (
	CommandPickUpTip CommandType = "pick_up_tip"
	CommandReturnTip CommandType = "return_tip"
	CommandDropTip   CommandType = "drop_tip"
	CommandAspirate  CommandType = "aspirate"
	CommandDispense  CommandType = "dispense"
	CommandMix       CommandType = "mix"
	CommandDelay     CommandType = "delay"
	CommandPause     CommandType = "pause"
	CommandComment   CommandType = "comment"
)

// Command represents a side-effect that the planner requests the host to perform.
type Command struct {
	Type    CommandType `json:"type"`
	Step    int         `json:"step"`
	Pool    string      `json:"pool,omitempty"`
	Well    *WellRef    `json:"well,omitempty"`
	Target  string      `json:"target,omitempty"`
	Volume  float64     `json:"volume,omitempty"`
	Height  float64     `json:"height,omitempty"`
	Cycles  int         `json:"cycles,omitempty"`
	Seconds float64     `json:"seconds,omitempty"`
	Message string      `json:"message,omitempty"`
}
