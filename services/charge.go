package services

import "math"

// 計費參數：12 小時內一律 10 元，超過後以 24 小時為一個計費區塊，每塊 20 元
const (
	flatTierMaxHours = 12.0
	flatTierCharge   = 10
	hoursPerBlock    = 24.0
	chargePerBlock   = 20
)

// CalculateCharge 根據停車時數計算費用，結帳與即時估算都必須走這一個函式，
// 兩邊才不會算出不同的金額。
// 注意 12 小時整還算在低價區間，12 小時多一點就直接跳到 20 元，這是刻意的階梯定價。
func CalculateCharge(durationHours float64) int {
	if durationHours <= flatTierMaxHours {
		return flatTierCharge
	}
	days := int(math.Ceil(durationHours / hoursPerBlock))
	return days * chargePerBlock
}
