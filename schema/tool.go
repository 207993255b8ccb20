package schema

import (
	"slices"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DataType 工具参数的数据类型，取值遵循 JSON Schema。
type DataType string

const (
	Object  DataType = "object"
	Number  DataType = "number"
	Integer DataType = "integer"
	String  DataType = "string"
	Array   DataType = "array"
	Null    DataType = "null"
	Boolean DataType = "boolean"
)

// ToolInfo 工具的描述信息，会被渲染进智能体提示词。
type ToolInfo struct {
	// Name 工具唯一名称，模型以此选择工具
	Name string
	// Desc 何时以及如何使用该工具
	Desc string
	// Extra 自定义元数据
	Extra map[string]any

	// ParamsOneOf 为 nil 表示工具接受自由文本输入
	*ParamsOneOf
}

// ParameterInfo 单个参数的描述。
type ParameterInfo struct {
	Type      DataType
	ElemInfo  *ParameterInfo
	SubParams map[string]*ParameterInfo
	Desc      string
	Enum      []string
	Required  bool
}

// ParamsOneOf 参数描述的两种来源，二选一。
type ParamsOneOf struct {
	params     map[string]*ParameterInfo
	jsonschema *jsonschema.Schema
}

// NewParamsOneOfByParams 以参数映射描述工具参数。
func NewParamsOneOfByParams(params map[string]*ParameterInfo) *ParamsOneOf {
	return &ParamsOneOf{params: params}
}

// NewParamsOneOfByJSONSchema 直接以 JSON Schema 描述工具参数。
func NewParamsOneOfByJSONSchema(s *jsonschema.Schema) *ParamsOneOf {
	return &ParamsOneOf{jsonschema: s}
}

// ToJSONSchema 统一转为 JSON Schema。属性按名称排序，保证渲染结果稳定。
func (p *ParamsOneOf) ToJSONSchema() (*jsonschema.Schema, error) {
	if p == nil {
		return nil, nil
	}
	if p.params == nil {
		return p.jsonschema, nil
	}

	sc := &jsonschema.Schema{Type: string(Object)}
	sc.Properties, sc.Required = paramsToProperties(p.params)
	return sc, nil
}

func paramsToProperties(params map[string]*ParameterInfo) (*orderedmap.OrderedMap[string, *jsonschema.Schema], []string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	props := orderedmap.New[string, *jsonschema.Schema]()
	required := make([]string, 0, len(params))
	for _, k := range keys {
		v := params[k]
		props.Set(k, paramInfoToJSONSchema(v))
		if v.Required {
			required = append(required, k)
		}
	}
	return props, required
}

func paramInfoToJSONSchema(info *ParameterInfo) *jsonschema.Schema {
	js := &jsonschema.Schema{
		Type:        string(info.Type),
		Description: info.Desc,
	}
	for _, e := range info.Enum {
		js.Enum = append(js.Enum, e)
	}
	if info.ElemInfo != nil {
		js.Items = paramInfoToJSONSchema(info.ElemInfo)
	}
	if len(info.SubParams) > 0 {
		js.Properties, js.Required = paramsToProperties(info.SubParams)
	}
	return js
}

// ArgsString 返回参数属性的紧凑 JSON，供提示词中 "args: {...}" 使用。
// 无参数描述时返回 "{}"。
func (t *ToolInfo) ArgsString() (string, error) {
	sc, err := t.ParamsOneOf.ToJSONSchema()
	if err != nil {
		return "", err
	}
	if sc == nil || sc.Properties == nil || sc.Properties.Len() == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(sc.Properties)
}
