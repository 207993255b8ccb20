package schema

import "math"

const (
	docMetaDataKeyScore  = "_score"
	docMetaDataKeyTokens = "_tokens"
)

// Document 带元数据的文本片段，检索与上下文装配的基本单位。
type Document struct {
	// ID 文档唯一标识，装配器据此去重
	ID string `json:"id"`
	// Content 文本内容
	Content string `json:"content"`
	// MetaData 元数据
	MetaData map[string]any `json:"meta_data"`
}

func (d *Document) String() string {
	return d.Content
}

func (d *Document) setMeta(key string, v any) *Document {
	if d.MetaData == nil {
		d.MetaData = make(map[string]any)
	}
	d.MetaData[key] = v
	return d
}

// WithScore 设置相关度得分。
func (d *Document) WithScore(score float64) *Document {
	return d.setMeta(docMetaDataKeyScore, score)
}

// Score 返回相关度得分，未设置时为 0。
func (d *Document) Score() float64 {
	if d.MetaData == nil {
		return 0
	}
	score, _ := d.MetaData[docMetaDataKeyScore].(float64)
	return score
}

// WithTokens 缓存该文档的 token 数。
func (d *Document) WithTokens(n int) *Document {
	return d.setMeta(docMetaDataKeyTokens, n)
}

// Tokens 返回缓存的 token 数。
// 经 JSON 编解码后数字变为 float64，按整数值读取；非整数或负数视为未设置。
func (d *Document) Tokens() (int, bool) {
	if d.MetaData == nil {
		return 0, false
	}
	switch n := d.MetaData[docMetaDataKeyTokens].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
