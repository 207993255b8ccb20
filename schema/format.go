package schema

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"text/template"

	"github.com/nikolalohinski/gonja"
	"github.com/nikolalohinski/gonja/config"
	"github.com/nikolalohinski/gonja/nodes"
	"github.com/nikolalohinski/gonja/parser"
	"github.com/slongfield/pyfmt"
)

// FormatType 模板语法。
type FormatType uint8

const (
	// FString Python 风格 {name} 占位符，由 pyfmt 实现。
	FString FormatType = 0
	// GoTemplate text/template 语法，缺失变量报错。
	GoTemplate FormatType = 1
	// Jinja2 语法，由 gonja 实现，禁用 include/extends/import/from。
	Jinja2 FormatType = 2
)

// MessagesTemplate 可渲染为消息列表的模板。
type MessagesTemplate interface {
	Format(ctx context.Context, vs map[string]any, formatType FormatType) ([]*Message, error)
}

// Format 渲染消息内容，返回新消息，不修改原消息。
//
//	msg := schema.UserMessage("Question: {input}")
//	msgs, err := msg.Format(ctx, map[string]any{"input": "1+1?"}, schema.FString)
func (m *Message) Format(_ context.Context, vs map[string]any, formatType FormatType) ([]*Message, error) {
	c, err := FormatContent(m.Content, vs, formatType)
	if err != nil {
		return nil, err
	}
	copied := *m
	copied.Content = c
	return []*Message{&copied}, nil
}

// MessagesPlaceholder 在模板中按 key 插入一组消息，常用于历史对话。
// optional 为 true 时缺失 key 渲染为空。
func MessagesPlaceholder(key string, optional bool) MessagesTemplate {
	return &messagesPlaceholder{key: key, optional: optional}
}

type messagesPlaceholder struct {
	key      string
	optional bool
}

func (p *messagesPlaceholder) Format(_ context.Context, vs map[string]any, _ FormatType) ([]*Message, error) {
	v, ok := vs[p.key]
	if !ok || v == nil {
		if p.optional {
			return []*Message{}, nil
		}
		return nil, fmt.Errorf("message placeholder format: %s not found", p.key)
	}

	msgs, ok := v.([]*Message)
	if !ok {
		return nil, fmt.Errorf("only messages can be used to format message placeholder, key: %v, actual type: %v",
			p.key, reflect.TypeOf(v))
	}
	return msgs, nil
}

// FormatContent 按 formatType 渲染模板字符串。
func FormatContent(content string, vs map[string]any, formatType FormatType) (string, error) {
	switch formatType {
	case FString:
		return pyfmt.Fmt(content, vs)
	case GoTemplate:
		tpl, err := template.New("template").Option("missingkey=error").Parse(content)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if err = tpl.Execute(&sb, vs); err != nil {
			return "", err
		}
		return sb.String(), nil
	case Jinja2:
		env, err := getJinjaEnv()
		if err != nil {
			return "", err
		}
		tpl, err := env.FromString(content)
		if err != nil {
			return "", err
		}
		return tpl.Execute(vs)
	default:
		return "", fmt.Errorf("unknown format type: %v", formatType)
	}
}

var (
	jinjaEnvOnce sync.Once
	jinjaEnv     *gonja.Environment
	jinjaEnvErr  error
)

// 可访问外部模板的语句一律禁用。
var disabledJinjaStatements = []string{"include", "extends", "import", "from"}

func getJinjaEnv() (*gonja.Environment, error) {
	jinjaEnvOnce.Do(func() {
		env := gonja.NewEnvironment(config.DefaultConfig, gonja.DefaultLoader)
		for _, kw := range disabledJinjaStatements {
			if !env.Statements.Exists(kw) {
				continue
			}
			kw := kw
			err := env.Statements.Replace(kw, func(*parser.Parser, *parser.Parser) (nodes.Statement, error) {
				return nil, fmt.Errorf("keyword[%s] has been disabled", kw)
			})
			if err != nil {
				jinjaEnvErr = fmt.Errorf("init jinja env fail: %w", err)
				return
			}
		}
		jinjaEnv = env
	})
	return jinjaEnv, jinjaEnvErr
}
