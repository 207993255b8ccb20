package compose

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/favbox/chainflow/internal/generic"
)

// keyAPI 按键名排序输出 map，同一内容总得到同一字节序列。
var keyAPI = sonic.ConfigStd

type cacheKeyPayload struct {
	Namespace string   `json:"namespace"`
	Input     any      `json:"input"`
	Stop      []string `json:"stop"`
}

// CacheKey 计算请求的内容键：命名空间、规范化输入与停止条件集合的 sha256。
// 停止条件按集合处理，顺序与重复项不影响结果。
func CacheKey(namespace string, input any, stop []string) (string, error) {
	raw, err := keyAPI.Marshal(&cacheKeyPayload{
		Namespace: namespace,
		Input:     input,
		Stop:      generic.SortedUnique(stop),
	})
	if err != nil {
		return "", fmt.Errorf("canonicalize cache key input failed: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
