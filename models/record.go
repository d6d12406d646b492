// models/record.go
package models

import "time"

// VehicleType 車輛種類（封閉集合，不接受自由字串）
type VehicleType string

const (
	VehicleTypeBike  VehicleType = "Bike"
	VehicleTypeCar   VehicleType = "Car"
	VehicleTypeSUV   VehicleType = "SUV"
	VehicleTypeTruck VehicleType = "Truck"
)

// ParseVehicleType 將輸入字串轉為 VehicleType，大小寫不敏感
func ParseVehicleType(s string) (VehicleType, bool) {
	switch s {
	case "Bike", "bike", "BIKE":
		return VehicleTypeBike, true
	case "Car", "car", "CAR":
		return VehicleTypeCar, true
	case "SUV", "suv", "Suv":
		return VehicleTypeSUV, true
	case "Truck", "truck", "TRUCK":
		return VehicleTypeTruck, true
	}
	return "", false
}

// RecordStatus 停車紀錄狀態，只允許 active -> completed 單向轉換
type RecordStatus string

const (
	StatusActive    RecordStatus = "active"
	StatusCompleted RecordStatus = "completed"
)

// ParkingRecord 停車紀錄表：一筆代表一次停車
type ParkingRecord struct {
	ID            string       `json:"id" gorm:"primaryKey;size:36;column:id"`                                     // 紀錄ID（UUID）
	VehicleNumber string       `json:"vehicleNumber" gorm:"size:20;index:idx_vehicle_number;not null"`             // 正規化後的車牌
	VehicleType   VehicleType  `json:"vehicleType" gorm:"size:10;not null"`                                        // 車輛種類
	OwnerName     string       `json:"ownerName" gorm:"size:100;not null"`                                         // 車主姓名
	PhoneNumber   string       `json:"phoneNumber" gorm:"size:10;not null"`                                        // 聯絡電話
	CheckInTime   time.Time    `json:"checkInTime" gorm:"type:datetime;not null"`                                  // 進場時間
	CheckOutTime  *time.Time   `json:"checkOutTime,omitempty" gorm:"type:datetime;default:null"`                   // 出場時間（未出場為 NULL）
	DurationHours *float64     `json:"durationHours,omitempty" gorm:"type:decimal(10,4);default:null"`             // 停車時數
	Charge        *int         `json:"charge,omitempty" gorm:"type:int;default:null"`                              // 結算費用（整數元）
	Status        RecordStatus `json:"status" gorm:"size:10;not null;index:idx_status"`                            // active/completed
}

// TableName 指定表名
func (ParkingRecord) TableName() string {
	return "parking_record"
}

// IsActive 回報這筆紀錄是否還在場內
func (r *ParkingRecord) IsActive() bool {
	return r.Status == StatusActive
}

// ActiveRecordResponse 在場車輛回應：多帶一個即時估算費用
type ActiveRecordResponse struct {
	ParkingRecord
	CurrentDurationHours float64 `json:"currentDurationHours"` // 到目前為止的停車時數
	CurrentCharge        int     `json:"currentCharge"`        // 現在出場會收的費用
}

// TicketPayload 掃碼票券的內容，交給外部的 QR 產生器使用
type TicketPayload struct {
	ID            string      `json:"id"`
	VehicleNumber string      `json:"vehicleNumber"`
	VehicleType   VehicleType `json:"vehicleType"`
	OwnerName     string      `json:"ownerName"`
	PhoneNumber   string      `json:"phoneNumber"`
	CheckInTime   time.Time   `json:"checkInTime"`
}

func (r *ParkingRecord) ToTicketPayload() TicketPayload {
	return TicketPayload{
		ID:            r.ID,
		VehicleNumber: r.VehicleNumber,
		VehicleType:   r.VehicleType,
		OwnerName:     r.OwnerName,
		PhoneNumber:   r.PhoneNumber,
		CheckInTime:   r.CheckInTime,
	}
}
