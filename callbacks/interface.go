package callbacks

import (
	"github.com/favbox/chainflow/internal/callbacks"
)

type RunInfo = callbacks.RunInfo

type CallbackInput = callbacks.CallbackInput

type CallbackOutput = callbacks.CallbackOutput

type Handler = callbacks.Handler

type CallbackTiming = callbacks.CallbackTiming

type TimingChecker = callbacks.TimingChecker

const (
	TimingOnStart = callbacks.TimingOnStart
	TimingOnEnd   = callbacks.TimingOnEnd
	TimingOnError = callbacks.TimingOnError
)
