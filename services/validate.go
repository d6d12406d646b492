package services

import (
	"regexp"
	"strings"
)

// 預編譯格式驗證用的正則表達式
var (
	// 車牌格式：2 個字母 + 1~2 個數字 + 1~2 個字母 + 3~4 個數字，例如 MH12AB1234
	plateNumberRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{1,2}[0-9]{3,4}$`)
	// 手機格式：10 位數字，開頭必須是 6~9
	phoneNumberRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// NormalizePlateNumber 去除所有空白並轉成大寫，"mh 12 ab 1234" -> "MH12AB1234"
func NormalizePlateNumber(s string) string {
	return strings.ToUpper(whitespaceRegex.ReplaceAllString(s, ""))
}

// IsValidPlateNumber 檢查車牌格式。先正規化再整串比對，前端也可以直接拿來做欄位檢查
func IsValidPlateNumber(s string) bool {
	return plateNumberRegex.MatchString(NormalizePlateNumber(s))
}

// IsValidPhoneNumber 檢查手機號碼格式
func IsValidPhoneNumber(s string) bool {
	return phoneNumberRegex.MatchString(s)
}
