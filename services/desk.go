package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"parkdesk/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Desk 是前台的進出場管理者，負責停車紀錄的生命週期。
// 所有會改動狀態的操作（CheckIn / CheckOut）都經過同一把鎖序列化，
// 兩個同車牌的進場、或兩次同筆出場，不可能同時成功。
type Desk struct {
	db  *gorm.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewDesk 建立 Desk，使用系統時鐘
func NewDesk(db *gorm.DB) *Desk {
	return &Desk{db: db, now: time.Now}
}

// NewDeskWithClock 建立 Desk 並注入時鐘，測試用
func NewDeskWithClock(db *gorm.DB, clock func() time.Time) *Desk {
	return &Desk{db: db, now: clock}
}

// CheckInInput 進場申請的欄位
type CheckInInput struct {
	VehicleNumber string
	VehicleType   string
	OwnerName     string
	PhoneNumber   string
}

// CheckIn 車輛進場：先做欄位驗證，再確認同車牌沒有在場紀錄，最後建立新紀錄。
// 驗證一律發生在任何寫入之前，失敗不會留下半套資料。
func (d *Desk) CheckIn(input CheckInInput) (*models.ParkingRecord, error) {
	if !IsValidPlateNumber(input.VehicleNumber) {
		return nil, &ValidationError{Field: "vehicleNumber", Reason: "must look like MH12AB1234 (2 letters, 1-2 digits, 1-2 letters, 3-4 digits)"}
	}
	vehicleType, ok := models.ParseVehicleType(input.VehicleType)
	if !ok {
		return nil, &ValidationError{Field: "vehicleType", Reason: "must be one of Bike, Car, SUV, Truck"}
	}
	if strings.TrimSpace(input.OwnerName) == "" {
		return nil, &ValidationError{Field: "ownerName", Reason: "must not be empty"}
	}
	if !IsValidPhoneNumber(input.PhoneNumber) {
		return nil, &ValidationError{Field: "phoneNumber", Reason: "must be 10 digits starting with 6-9"}
	}

	plate := NormalizePlateNumber(input.VehicleNumber)

	d.mu.Lock()
	defer d.mu.Unlock()

	tx := d.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// 在場唯一性檢查：同一張車牌同時只能有一筆 active。
	// 歷史上同車牌可以有很多筆 completed，所以這裡只看 active 子集
	var existing models.ParkingRecord
	err := tx.Where("vehicle_number = ? AND status = ?", plate, models.StatusActive).First(&existing).Error
	if err == nil {
		tx.Rollback()
		return nil, &AlreadyActiveError{VehicleNumber: plate}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		log.Printf("Failed to check active record for plate %s: %v", plate, err)
		return nil, fmt.Errorf("failed to check active record: %w", err)
	}

	record := models.ParkingRecord{
		ID:            uuid.NewString(),
		VehicleNumber: plate,
		VehicleType:   vehicleType,
		OwnerName:     strings.TrimSpace(input.OwnerName),
		PhoneNumber:   input.PhoneNumber,
		CheckInTime:   d.now(),
		Status:        models.StatusActive,
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to create parking record for plate %s: %v", plate, err)
		return nil, fmt.Errorf("failed to create parking record: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Checked in vehicle %s (%s) with record %s", plate, vehicleType, record.ID)
	return &record, nil
}

// CheckOut 車輛出場：計算停車時數、結算費用，並把紀錄轉為 completed。
// 出場三欄位（時間、時數、費用）在同一個 UPDATE 裡一起寫入，不會出現只寫一半的紀錄。
func (d *Desk) CheckOut(id string) (*models.ParkingRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := d.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	var record models.ParkingRecord
	if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		log.Printf("Failed to load parking record %s: %v", id, err)
		return nil, fmt.Errorf("failed to load parking record: %w", err)
	}

	// completed 是終態，重複出場要明確失敗
	if record.Status == models.StatusCompleted {
		tx.Rollback()
		return nil, &AlreadyCheckedOutError{ID: id}
	}

	checkOutTime := d.now()
	durationHours := checkOutTime.Sub(record.CheckInTime).Hours()
	charge := CalculateCharge(durationHours)

	if err := tx.Model(&record).Updates(map[string]interface{}{
		"check_out_time": checkOutTime,
		"duration_hours": durationHours,
		"charge":         charge,
		"status":         models.StatusCompleted,
	}).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to check out parking record %s: %v", id, err)
		return nil, fmt.Errorf("failed to check out parking record: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	record.CheckOutTime = &checkOutTime
	record.DurationHours = &durationHours
	record.Charge = &charge
	record.Status = models.StatusCompleted

	log.Printf("Checked out vehicle %s after %.2f hours, charge %d", record.VehicleNumber, durationHours, charge)
	return &record, nil
}

// ListActive 查詢所有在場車輛，進場時間新的在前
func (d *Desk) ListActive() ([]models.ParkingRecord, error) {
	var records []models.ParkingRecord
	if err := d.db.
		Where("status = ?", models.StatusActive).
		Order("check_in_time DESC").
		Find(&records).Error; err != nil {
		log.Printf("Failed to list active records: %v", err)
		return nil, fmt.Errorf("failed to list active records: %w", err)
	}
	return records, nil
}

// ListCompletedSince 查詢出場時間在 since 之後的已完成紀錄
func (d *Desk) ListCompletedSince(since time.Time) ([]models.ParkingRecord, error) {
	var records []models.ParkingRecord
	if err := d.db.
		Where("status = ? AND check_out_time >= ?", models.StatusCompleted, since).
		Order("check_out_time DESC").
		Find(&records).Error; err != nil {
		log.Printf("Failed to list completed records: %v", err)
		return nil, fmt.Errorf("failed to list completed records: %w", err)
	}
	return records, nil
}

// ListCompleted 查詢所有已完成紀錄
func (d *Desk) ListCompleted() ([]models.ParkingRecord, error) {
	var records []models.ParkingRecord
	if err := d.db.
		Where("status = ?", models.StatusCompleted).
		Order("check_out_time DESC").
		Find(&records).Error; err != nil {
		log.Printf("Failed to list completed records: %v", err)
		return nil, fmt.Errorf("failed to list completed records: %w", err)
	}
	return records, nil
}

// ListCheckedInSince 查詢進場時間在 since 之後的紀錄（不分在場或已出場）
func (d *Desk) ListCheckedInSince(since time.Time) ([]models.ParkingRecord, error) {
	var records []models.ParkingRecord
	if err := d.db.
		Where("check_in_time >= ?", since).
		Order("check_in_time DESC").
		Find(&records).Error; err != nil {
		log.Printf("Failed to list records since %s: %v", since.Format(time.RFC3339), err)
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// ListToday 查詢今天有動靜的紀錄：今天進場的，加上今天出場的
func (d *Desk) ListToday() ([]models.ParkingRecord, error) {
	midnight := d.startOfToday()
	var records []models.ParkingRecord
	if err := d.db.
		Where("check_in_time >= ? OR check_out_time >= ?", midnight, midnight).
		Order("check_in_time DESC").
		Find(&records).Error; err != nil {
		log.Printf("Failed to list today's records: %v", err)
		return nil, fmt.Errorf("failed to list today's records: %w", err)
	}
	return records, nil
}

// TotalRevenue 所有已完成紀錄的費用總和
func (d *Desk) TotalRevenue() (int64, error) {
	var total int64
	if err := d.db.Model(&models.ParkingRecord{}).
		Where("status = ?", models.StatusCompleted).
		Select("COALESCE(SUM(charge), 0)").
		Scan(&total).Error; err != nil {
		log.Printf("Failed to calculate total revenue: %v", err)
		return 0, fmt.Errorf("failed to calculate total revenue: %w", err)
	}
	return total, nil
}

// RevenueSince 出場時間在 since 之後的費用總和
func (d *Desk) RevenueSince(since time.Time) (int64, error) {
	var total int64
	if err := d.db.Model(&models.ParkingRecord{}).
		Where("status = ? AND check_out_time >= ?", models.StatusCompleted, since).
		Select("COALESCE(SUM(charge), 0)").
		Scan(&total).Error; err != nil {
		log.Printf("Failed to calculate revenue since %s: %v", since.Format(time.RFC3339), err)
		return 0, fmt.Errorf("failed to calculate revenue: %w", err)
	}
	return total, nil
}

// DeskSummary 前台儀表板的統計數字
type DeskSummary struct {
	ActiveCount    int64 `json:"activeCount"`
	CompletedToday int64 `json:"completedToday"`
	RevenueToday   int64 `json:"revenueToday"`
	RevenueTotal   int64 `json:"revenueTotal"`
}

// Summary 彙整在場數量與今日、歷史營收
func (d *Desk) Summary() (*DeskSummary, error) {
	midnight := d.startOfToday()
	var summary DeskSummary

	if err := d.db.Model(&models.ParkingRecord{}).
		Where("status = ?", models.StatusActive).
		Count(&summary.ActiveCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count active records: %w", err)
	}
	if err := d.db.Model(&models.ParkingRecord{}).
		Where("status = ? AND check_out_time >= ?", models.StatusCompleted, midnight).
		Count(&summary.CompletedToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's completed records: %w", err)
	}

	revenueToday, err := d.RevenueSince(midnight)
	if err != nil {
		return nil, err
	}
	summary.RevenueToday = revenueToday

	revenueTotal, err := d.TotalRevenue()
	if err != nil {
		return nil, err
	}
	summary.RevenueTotal = revenueTotal

	return &summary, nil
}

// GetRecord 以 ID 取得單筆紀錄
func (d *Desk) GetRecord(id string) (*models.ParkingRecord, error) {
	var record models.ParkingRecord
	if err := d.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		log.Printf("Failed to load parking record %s: %v", id, err)
		return nil, fmt.Errorf("failed to load parking record: %w", err)
	}
	return &record, nil
}

// EstimateCharge 在場車輛「現在出場會收多少」的即時估算，
// 和 CheckOut 用同一個 CalculateCharge，畫面上的數字才不會跟最後結帳不同。
// 已出場的紀錄直接回已寫死的結帳值
func (d *Desk) EstimateCharge(record *models.ParkingRecord) (float64, int) {
	if !record.IsActive() {
		return durationOf(record), chargeOf(record)
	}
	hours := d.now().Sub(record.CheckInTime).Hours()
	if hours < 0 {
		hours = 0
	}
	return hours, CalculateCharge(hours)
}

func (d *Desk) startOfToday() time.Time {
	now := d.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
