/*
Package components 定义流水线可接入的外部协作组件类别。
*/
package components

// Component 表示组件的类别，用于回调中的 RunInfo 标识。
type Component string

const (
	// ComponentOfPrompt 提示词模板组件
	ComponentOfPrompt Component = "ChatTemplate"
	// ComponentOfChatModel 聊天模型组件
	ComponentOfChatModel Component = "ChatModel"
	// ComponentOfRetriever 检索器组件
	ComponentOfRetriever Component = "Retriever"
	// ComponentOfTool 工具组件
	ComponentOfTool Component = "Tool"
	// ComponentOfTokenizer 分词计数组件
	ComponentOfTokenizer Component = "Tokenizer"
	// ComponentOfCache 结果缓存组件
	ComponentOfCache Component = "Cache"
)

// Typer 可选接口，组件实现后可提供自身的实现类型名，如 "OpenAI"、"Redis"。
type Typer interface {
	GetType() string
}

// GetType 返回组件的实现类型名。
func GetType(component any) (string, bool) {
	if typer, ok := component.(Typer); ok {
		return typer.GetType(), true
	}
	return "", false
}
