package intake

// Step is the questionnaire state of a session.
type Step string

const (
	StepAwaitingName         Step = "awaiting_name"
	StepAwaitingDOB          Step = "awaiting_dob"
	StepAwaitingEnglish      Step = "awaiting_english"
	StepAwaitingCPU          Step = "awaiting_cpu"
	StepAwaitingGPU          Step = "awaiting_gpu"
	StepAwaitingConnectivity Step = "awaiting_connectivity"
	StepAwaitingPhone        Step = "awaiting_phone"
	StepCompleted            Step = "completed"
)

// Next returns the state that follows s once its answer is accepted.
// Completed and unknown steps have no successor.
func (s Step) Next() (Step, bool) {
	switch s {
	case StepAwaitingName:
		return StepAwaitingDOB, true
	case StepAwaitingDOB:
		return StepAwaitingEnglish, true
	case StepAwaitingEnglish:
		return StepAwaitingCPU, true
	case StepAwaitingCPU:
		return StepAwaitingGPU, true
	case StepAwaitingGPU:
		return StepAwaitingConnectivity, true
	case StepAwaitingConnectivity:
		return StepAwaitingPhone, true
	case StepAwaitingPhone:
		return StepCompleted, true
	case StepCompleted:
		return "", false
	default:
		return "", false
	}
}

// Valid reports whether s is one of the questionnaire states.
func (s Step) Valid() bool {
	switch s {
	case StepAwaitingName, StepAwaitingDOB, StepAwaitingEnglish, StepAwaitingCPU,
		StepAwaitingGPU, StepAwaitingConnectivity, StepAwaitingPhone, StepCompleted:
		return true
	default:
		return false
	}
}
