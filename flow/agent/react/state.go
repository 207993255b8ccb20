package react

// State 智能体循环的状态。FINISHED 与 FAILED 为终止状态。
type State uint8

const (
	Thinking State = iota
	Acting
	Observing
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case Thinking:
		return "THINKING"
	case Acting:
		return "ACTING"
	case Observing:
		return "OBSERVING"
	case Finished:
		return "FINISHED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal 报告是否为终止状态。
func (s State) Terminal() bool {
	return s == Finished || s == Failed
}
