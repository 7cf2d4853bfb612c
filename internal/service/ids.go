package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/vinyl-next/internal/constants"
)

// NormalizeID 把数字、字符串或 {id:...} 对象形态的商品标识归一为统一的字符串键
// 幂等：对已归一的结果再次调用返回相同值
// 拒绝空串、字面 null/undefined、非有限数字以及误把整个对象序列化进来的哨兵值
func NormalizeID(raw interface{}) (string, error) {
	// 历史数据中存在 {id: ...} 包装，仅解开一层
	if wrapped, ok := raw.(map[string]interface{}); ok {
		inner, ok := wrapped["id"]
		if !ok {
			return "", ErrInvalidIdentifier
		}
		if _, nested := inner.(map[string]interface{}); nested {
			return "", ErrInvalidIdentifier
		}
		raw = inner
	}

	var id string
	switch v := raw.(type) {
	case string:
		id = strings.TrimSpace(v)
	case int:
		id = strconv.Itoa(v)
	case int64:
		id = strconv.FormatInt(v, 10)
	case uint:
		id = strconv.FormatUint(uint64(v), 10)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", ErrInvalidIdentifier
		}
		// JSON 数字默认解码为 float64
		if v == float64(int64(v)) {
			id = strconv.FormatInt(int64(v), 10)
		} else {
			id = strconv.FormatFloat(v, 'f', -1, 64)
		}
	default:
		return "", ErrInvalidIdentifier
	}

	if id == "" {
		return "", ErrInvalidIdentifier
	}
	switch id {
	case constants.SentinelNull, constants.SentinelUndefined:
		return "", ErrInvalidIdentifier
	}
	if strings.HasPrefix(id, constants.SentinelObjectPrefix) {
		return "", ErrInvalidIdentifier
	}
	return id, nil
}

// ValidKey 判断一个已持久化的键是否仍然合法
func ValidKey(id string) bool {
	normalized, err := NormalizeID(id)
	return err == nil && normalized == id
}
