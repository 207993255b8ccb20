package tool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/favbox/chainflow/schema"
)

var (
	// ErrDuplicateTool 同名工具重复注册。
	ErrDuplicateTool = errors.New("duplicate tool name")
	// ErrInvalidTool 工具缺少名称或描述信息。
	ErrInvalidTool = errors.New("invalid tool")
)

// Registry 名称到工具的只读映射。构建后不再变化，可被多个运行并发读取。
type Registry struct {
	tools map[string]Tool
	infos []*schema.ToolInfo
}

// NewRegistry 按给定顺序注册工具；Infos 与 Names 保持该顺序。
func NewRegistry(ctx context.Context, tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
		infos: make([]*schema.ToolInfo, 0, len(tools)),
	}
	for i, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("%w: tool[%d] is nil", ErrInvalidTool, i)
		}
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get info of tool[%d] failed: %w", i, err)
		}
		if info == nil || info.Name == "" {
			return nil, fmt.Errorf("%w: tool[%d] has no name", ErrInvalidTool, i)
		}
		if _, ok := r.tools[info.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, info.Name)
		}
		r.tools[info.Name] = t
		r.infos = append(r.infos, info)
	}
	return r, nil
}

// Get 按名称查找工具。nil Registry 视为空。
func (r *Registry) Get(name string) (Tool, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tools[name]
	return t, ok
}

// Len 返回工具数量。
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.infos)
}

// Names 按注册顺序返回工具名。
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.infos))
	for i, info := range r.infos {
		names[i] = info.Name
	}
	return names
}

// Infos 返回工具描述的副本。
func (r *Registry) Infos() []*schema.ToolInfo {
	if r == nil {
		return nil
	}
	return slices.Clone(r.infos)
}

// Describe 逐行渲染 "name: desc, args: {...}"，供提示词使用。
func (r *Registry) Describe() (string, error) {
	if r == nil {
		return "", nil
	}
	lines := make([]string, 0, len(r.infos))
	for _, info := range r.infos {
		args, err := info.ArgsString()
		if err != nil {
			return "", fmt.Errorf("render args of tool %s failed: %w", info.Name, err)
		}
		lines = append(lines, fmt.Sprintf("%s: %s, args: %s", info.Name, info.Desc, args))
	}
	return strings.Join(lines, "\n"), nil
}
