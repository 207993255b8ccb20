/*
 * react.go - ReAct 智能体循环
 *
 * 状态机：
 *   THINKING  渲染提示词与草稿本，经执行引擎调用模型，解析补全
 *   ACTING    在注册表中查找工具并执行，工具失败转为观察文本
 *   OBSERVING 把 (动作, 观察) 追加到草稿本，回到 THINKING
 *   FINISHED  返回最终答案
 *   FAILED    返回解析错误、未知工具、超限或模型调用错误
 *
 * 每次运行的状态只存在于本次调用中，运行之间除调用方传入的历史对话外不共享任何状态。
 */

package react

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/favbox/chainflow/components/cache"
	"github.com/favbox/chainflow/components/model"
	"github.com/favbox/chainflow/components/prompt"
	"github.com/favbox/chainflow/components/tool"
	"github.com/favbox/chainflow/compose"
	"github.com/favbox/chainflow/flow/agent"
	"github.com/favbox/chainflow/flow/agent/parser"
	"github.com/favbox/chainflow/internal/generic"
	"github.com/favbox/chainflow/logging"
	"github.com/favbox/chainflow/schema"
)

const (
	// DefaultMaxIterations 默认最大循环次数。
	DefaultMaxIterations = 15
	// AgentName 默认的智能体名，也是回调中的实现类型。
	AgentName = "ReActAgent"
	// ObservationStop 模型生成到下一个观察前停止，避免编造工具结果。
	ObservationStop = "\nObservation:"
	// ToolErrorPrefix 工具失败时观察文本的前缀。
	ToolErrorPrefix = "tool error: "
)

// HistoryTrimmer 每次运行开始前裁剪历史对话，需保持消息顺序。
type HistoryTrimmer func(ctx context.Context, history []*schema.Message) ([]*schema.Message, error)

// AgentConfig ReAct 智能体配置。
type AgentConfig struct {
	// Model 生成补全的模型，必填。
	Model model.ChatModel

	// Tools 默认允许调用的工具，按给定顺序写入提示词。
	Tools []tool.Tool

	// Parser 补全解析器，默认 parser.NewReActParser(nil)。
	Parser parser.OutputParser

	// Prompt 提示词模板，默认 DefaultPrompt()。
	Prompt prompt.ChatTemplate

	// MaxIterations 最大 THINKING→ACTING→OBSERVING 循环次数，默认 15。
	MaxIterations int

	// MaxExecutionTime 单次运行的最长时间，0 表示不限。
	// 只在每次 THINKING 之前检查，不会打断进行中的模型或工具调用。
	MaxExecutionTime time.Duration

	// ReturnDirectly 这些工具的结果直接作为最终答案返回。
	ReturnDirectly map[string]struct{}

	// HistoryTrimmer 裁剪输入中的 chat_history。
	HistoryTrimmer HistoryTrimmer

	// Cache 缓存模型调用结果，为空时不缓存。
	Cache cache.Cache

	// Name 智能体名，默认 "ReActAgent"，同时用作缓存命名空间。
	Name string

	Logger logging.Logger
}

// Agent ReAct 智能体，构建后可被多个 goroutine 并发使用。
//
//	a, err := react.NewAgent(ctx, &react.AgentConfig{
//		Model: myModel,
//		Tools: []tool.Tool{calculator},
//	})
//	if err != nil {...}
//	finish, err := a.Run(ctx, map[string]any{"input": "what is 3 * 7?"})
//	if err != nil {...}
//	println(finish.Output())
type Agent struct {
	name           string
	model          model.ChatModel
	tools          *tool.Registry
	parser         parser.OutputParser
	prompt         prompt.ChatTemplate
	finishPrefix   string
	maxIterations  int
	maxTime        time.Duration
	returnDirectly map[string]struct{}
	trimmer        HistoryTrimmer
	cache          cache.Cache
	logger         logging.Logger

	thinking *compose.Engine[map[string]any, *schema.Message]
}

// NewAgent 创建 ReAct 智能体。
func NewAgent(ctx context.Context, config *AgentConfig) (*Agent, error) {
	if config == nil || config.Model == nil {
		return nil, errors.New("react agent: model is required")
	}

	tools, err := tool.NewRegistry(ctx, config.Tools...)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		name:           config.Name,
		model:          config.Model,
		tools:          tools,
		parser:         config.Parser,
		prompt:         config.Prompt,
		finishPrefix:   parser.DefaultFinishPrefix,
		maxIterations:  config.MaxIterations,
		maxTime:        config.MaxExecutionTime,
		returnDirectly: config.ReturnDirectly,
		trimmer:        config.HistoryTrimmer,
		cache:          config.Cache,
		logger:         logging.OrNoOp(config.Logger),
	}
	if a.name == "" {
		a.name = AgentName
	}
	if a.parser == nil {
		a.parser = parser.NewReActParser(nil)
	}
	if rp, ok := a.parser.(*parser.ReActParser); ok {
		a.finishPrefix = rp.FinishPrefix()
	}
	if a.prompt == nil {
		a.prompt = DefaultPrompt()
	}
	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}

	if a.thinking, err = a.buildThinking(); err != nil {
		return nil, err
	}
	return a, nil
}

// buildThinking 组装 提示词 -> 模型 的阶段，并由执行引擎驱动。
func (a *Agent) buildThinking(modelOpts ...model.Option) (*compose.Engine[map[string]any, *schema.Message], error) {
	st, err := compose.Sequence[map[string]any, *schema.Message](
		compose.ChatTemplateStage(a.prompt),
		compose.ChatModelStage(a.model, modelOpts...),
	)
	if err != nil {
		return nil, err
	}

	opts := []compose.EngineOption{
		compose.WithCacheNamespace(a.name),
		compose.WithEngineLogger(a.logger),
	}
	if a.cache != nil {
		opts = append(opts, compose.WithCache(a.cache))
	}
	return compose.NewEngine(st.WithName(a.name+".Thinking"), opts...)
}

// Run 执行循环直到给出最终答案或失败。input 至少包含 "input"，可选 "chat_history"。
func (a *Agent) Run(ctx context.Context, input map[string]any, opts ...agent.AgentOption) (*schema.AgentFinish, error) {
	return a.loopStage(nil, opts).Invoke(ctx, input, agent.GetComposeOptions(opts...)...)
}

// Stream 同 Run，并把每次 THINKING 中模型的增量输出交给 onChunk。
func (a *Agent) Stream(ctx context.Context, input map[string]any, onChunk compose.ChunkHandler,
	opts ...agent.AgentOption) (*schema.AgentFinish, error) {
	return a.loopStage(onChunk, opts).Invoke(ctx, input, agent.GetComposeOptions(opts...)...)
}

// AsStage 以阶段形式暴露智能体，输出为 AgentFinish.ReturnValues。
func (a *Agent) AsStage(opts ...agent.AgentOption) compose.Stage[map[string]any, map[string]any] {
	return compose.MustSequence[map[string]any, map[string]any](
		a.loopStage(nil, opts),
		compose.InvokableLambda(func(_ context.Context, f *schema.AgentFinish) (map[string]any, error) {
			return generic.CopyMap(f.ReturnValues), nil
		}, compose.WithLambdaName("ReturnValues")),
	)
}

func (a *Agent) loopStage(onChunk compose.ChunkHandler, opts []agent.AgentOption) compose.Stage[map[string]any, *schema.AgentFinish] {
	o := agent.GetImplSpecificOptions(&Options{}, opts...)
	return compose.InvokableLambda(func(ctx context.Context, input map[string]any) (*schema.AgentFinish, error) {
		r, err := a.newRun(ctx, o, onChunk)
		if err != nil {
			return nil, err
		}
		return r.loop(ctx, input)
	}, compose.WithLambdaName(a.name), compose.WithLambdaType(AgentName))
}

func (a *Agent) newRun(ctx context.Context, o *Options, onChunk compose.ChunkHandler) (*run, error) {
	r := &run{
		agent:         a,
		thinking:      a.thinking,
		tools:         a.tools,
		toolOpts:      o.ToolOptions,
		maxIterations: a.maxIterations,
		onChunk:       onChunk,
	}
	if o.Tools != nil {
		r.tools = o.Tools
	}
	if o.MaxIterations > 0 {
		r.maxIterations = o.MaxIterations
	}
	if len(o.ModelOptions) > 0 {
		var err error
		if r.thinking, err = a.buildThinking(o.ModelOptions...); err != nil {
			return nil, err
		}
	}

	// 调用方的停止条件与并发上限一并下传，THINKING 时再追加 ObservationStop
	cfg, _ := compose.GetExecutionConfig(ctx)
	r.callOpts = []compose.Option{
		compose.WithRunID(cfg.RunID),
		compose.WithTag(cfg.Tag),
		compose.WithCallbacks(cfg.Handlers...),
		compose.WithLogger(cfg.Logger),
		compose.WithStop(cfg.Stop...),
		compose.WithMaxConcurrency(cfg.MaxConcurrency),
	}
	return r, nil
}

// run 单次运行的可变状态。
type run struct {
	agent         *Agent
	thinking      *compose.Engine[map[string]any, *schema.Message]
	tools         *tool.Registry
	toolOpts      []tool.Option
	maxIterations int
	onChunk       compose.ChunkHandler
	callOpts      []compose.Option

	scratchpad Scratchpad
	iterations int
	lastLog    string
}

func (r *run) loop(ctx context.Context, input map[string]any) (*schema.AgentFinish, error) {
	vars, err := r.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	var (
		state  = Thinking
		start  = time.Now()
		action *schema.AgentAction
		obs    string
		finish *schema.AgentFinish
		runErr error
	)

	for {
		prev := state
		switch state {
		case Thinking:
			if r.iterations >= r.maxIterations {
				runErr = r.limitErr(agent.ErrIterationLimit, start)
				state = Failed
				break
			}
			if r.agent.maxTime > 0 && time.Since(start) >= r.agent.maxTime {
				runErr = r.limitErr(agent.ErrTimeLimit, start)
				state = Failed
				break
			}

			var step schema.AgentStep
			step, runErr = r.think(ctx, vars)
			if runErr != nil {
				state = Failed
				break
			}
			switch s := step.(type) {
			case *schema.AgentFinish:
				finish, state = s, Finished
			case *schema.AgentAction:
				action, state = s, Acting
			default:
				runErr, state = &agent.ParseError{Text: r.lastLog, Reason: "unexpected step"}, Failed
			}

		case Acting:
			obs, runErr = r.act(ctx, action)
			if runErr != nil {
				state = Failed
				break
			}
			state = Observing

		case Observing:
			r.scratchpad.Append(action, obs)
			r.iterations++
			if _, ok := r.agent.returnDirectly[action.Tool]; ok {
				finish, state = schema.NewAgentFinish(obs, action.Log), Finished
				break
			}
			state = Thinking

		case Finished:
			r.agent.logger.Debug("agent finished", "agent", r.agent.name, "iterations", r.iterations)
			return finish, nil

		case Failed:
			r.agent.logger.Debug("agent failed", "agent", r.agent.name, "iterations", r.iterations, "err", runErr)
			return nil, runErr
		}

		if state != prev {
			r.agent.logger.Debug("agent transition", "agent", r.agent.name,
				"from", prev.String(), "to", state.String(), "iteration", r.iterations)
		}
	}
}

// prepare 复制输入并补齐提示词变量，调用方的 map 不会被修改。
func (r *run) prepare(ctx context.Context, input map[string]any) (map[string]any, error) {
	vars := generic.CopyMap(input)
	if vars == nil {
		vars = make(map[string]any)
	}

	if history, ok := vars[ChatHistoryKey].([]*schema.Message); ok && r.agent.trimmer != nil {
		trimmed, err := r.agent.trimmer(ctx, history)
		if err != nil {
			return nil, err
		}
		vars[ChatHistoryKey] = trimmed
	}

	desc, err := r.tools.Describe()
	if err != nil {
		return nil, err
	}
	vars[ToolsKey] = desc
	vars[ToolNamesKey] = strings.Join(r.tools.Names(), ", ")
	vars[FinishKey] = r.agent.finishPrefix
	return vars, nil
}

func (r *run) think(ctx context.Context, vars map[string]any) (schema.AgentStep, error) {
	vars[ScratchpadKey] = r.scratchpad.String()

	opts := append(append([]compose.Option{}, r.callOpts...), compose.WithStop(ObservationStop))

	var (
		msg *schema.Message
		err error
	)
	if r.onChunk != nil {
		msg, err = r.thinking.RunStream(ctx, vars, r.onChunk, opts...)
	} else {
		msg, err = r.thinking.Run(ctx, vars, opts...)
	}
	if err != nil {
		return nil, err
	}

	text := ""
	if msg != nil {
		text = msg.Content
	}
	r.lastLog = text
	return r.agent.parser.Parse(ctx, text)
}

// act 执行工具。工具自身的错误或 panic 转为观察文本交还给模型；只有未知工具是终止性错误。
func (r *run) act(ctx context.Context, action *schema.AgentAction) (string, error) {
	t, ok := r.tools.Get(action.Tool)
	if !ok {
		return "", &agent.UnknownToolError{
			Tool:      action.Tool,
			Available: r.tools.Names(),
			Iteration: r.iterations + 1,
			Log:       action.Log,
		}
	}

	st, err := compose.ToolStage(ctx, t, r.toolOpts...)
	if err != nil {
		return r.toolFailure(action, err), nil
	}
	out, err := st.Invoke(ctx, action.ToolInput, r.callOpts...)
	if err != nil {
		return r.toolFailure(action, err), nil
	}
	return out, nil
}

func (r *run) toolFailure(action *schema.AgentAction, err error) string {
	r.agent.logger.Warn("tool failed, feeding error back as observation",
		"agent", r.agent.name, "tool", action.Tool, "iteration", r.iterations+1, "err", err)

	// panic 的堆栈只进日志，不进提示词
	var pe interface{ Info() any }
	if errors.As(err, &pe) {
		return ToolErrorPrefix + fmt.Sprintf("panic: %v", pe.Info())
	}
	return ToolErrorPrefix + err.Error()
}

func (r *run) limitErr(kind error, start time.Time) error {
	return &agent.LimitError{
		Err:        kind,
		Iterations: r.iterations,
		Limit:      r.maxIterations,
		Elapsed:    time.Since(start),
		LastLog:    r.lastLog,
	}
}
