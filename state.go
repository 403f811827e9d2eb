package ashsplit

// State is the lifecycle position of an Experiment.
type State int32

const (
	StateCreated State = iota
	StateSetUp
	StateAssigned
	StateParamsReady
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSetUp:
		return "set_up"
	case StateAssigned:
		return "assigned"
	case StateParamsReady:
		return "params_ready"
	default:
		return "unknown"
	}
}
