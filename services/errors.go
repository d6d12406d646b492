package services

import "fmt"

// 這裡的四種錯誤都是操作人員看得到、可以處理的狀況，
// handler 層用 errors.As 分流成對應的 HTTP 狀態碼。

// ValidationError 欄位格式錯誤，一定指得出是哪個欄位
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AlreadyActiveError 同一張車牌已經有在場的紀錄，要先辦出場才能再進場
type AlreadyActiveError struct {
	VehicleNumber string
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("vehicle %s is already checked in, check it out first", e.VehicleNumber)
}

// NotFoundError 查無此紀錄
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("parking record %s not found", e.ID)
}

// AlreadyCheckedOutError 這筆紀錄已經結帳出場，重複出場必須失敗而不是默默成功
type AlreadyCheckedOutError struct {
	ID string
}

func (e *AlreadyCheckedOutError) Error() string {
	return fmt.Sprintf("parking record %s is already checked out", e.ID)
}
