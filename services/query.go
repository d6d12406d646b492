package services

import (
	"sort"
	"strings"
	"time"

	"parkdesk/models"
)

// 列表的過濾與排序都是對查回來的快照做純轉換，不會動到任何狀態。

// FilterByVehicleType 留下指定車種的紀錄
func FilterByVehicleType(records []models.ParkingRecord, vehicleType models.VehicleType) []models.ParkingRecord {
	filtered := make([]models.ParkingRecord, 0, len(records))
	for _, r := range records {
		if r.VehicleType == vehicleType {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterByQuery 以關鍵字比對車牌、車主姓名、電話，大小寫不敏感
func FilterByQuery(records []models.ParkingRecord, query string) []models.ParkingRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	filtered := make([]models.ParkingRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.VehicleNumber), q) ||
			strings.Contains(strings.ToLower(r.OwnerName), q) ||
			strings.Contains(r.PhoneNumber, q) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// 排序選項
const (
	SortTimeDesc      = "time_desc"
	SortChargeDesc    = "charge_desc"
	SortDurationDesc  = "duration_desc"
	SortVehicleNumber = "vehicle_number"
)

// SortRecords 依指定方式排序，回傳新的切片，不改動輸入。
// time_desc 對已出場紀錄看出場時間，在場紀錄看進場時間
func SortRecords(records []models.ParkingRecord, order string) []models.ParkingRecord {
	sorted := make([]models.ParkingRecord, len(records))
	copy(sorted, records)

	switch order {
	case SortChargeDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return chargeOf(&sorted[i]) > chargeOf(&sorted[j])
		})
	case SortDurationDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return durationOf(&sorted[i]) > durationOf(&sorted[j])
		})
	case SortVehicleNumber:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].VehicleNumber < sorted[j].VehicleNumber
		})
	case SortTimeDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return eventTimeOf(&sorted[i]).After(eventTimeOf(&sorted[j]))
		})
	}
	return sorted
}

func chargeOf(r *models.ParkingRecord) int {
	if r.Charge != nil {
		return *r.Charge
	}
	return 0
}

func durationOf(r *models.ParkingRecord) float64 {
	if r.DurationHours != nil {
		return *r.DurationHours
	}
	return 0
}

func eventTimeOf(r *models.ParkingRecord) time.Time {
	if r.CheckOutTime != nil {
		return *r.CheckOutTime
	}
	return r.CheckInTime
}
