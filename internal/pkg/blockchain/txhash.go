package blockchain

import (
	"strings"
)

// ValidationResult 交易哈希校验结果。Error 仅在 Valid 为 false 时非空。
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateTxHash 校验用户提交的交易哈希格式：0x 前缀 + 64 位十六进制。
// 纯语法检查，不访问链上数据（是否真实存在由管理员人工查区块浏览器确认）。
// 永不 panic，总是返回结果对象。
func ValidateTxHash(input string) ValidationResult {
	trimmed := strings.TrimSpace(input)

	if trimmed == "" {
		return ValidationResult{Valid: false, Error: "Transaction hash is required"}
	}

	if !strings.HasPrefix(trimmed, "0x") {
		return ValidationResult{Valid: false, Error: "Transaction hash must start with \"0x\""}
	}

	if len(trimmed) != 66 {
		return ValidationResult{Valid: false, Error: "Transaction hash must be 66 characters long (0x + 64 hex characters)"}
	}

	for _, c := range trimmed[2:] {
		if !isHexDigit(c) {
			return ValidationResult{Valid: false, Error: "Transaction hash must contain only hexadecimal characters (0-9, a-f, A-F)"}
		}
	}

	return ValidationResult{Valid: true}
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
