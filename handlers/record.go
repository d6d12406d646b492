package handlers

import (
	"errors"
	"net/http"
	"time"

	"parkdesk/models"
	"parkdesk/services"

	"github.com/gin-gonic/gin"
)

// CheckIn 車輛進場
func CheckIn(desk *services.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VehicleNumber string `json:"vehicleNumber" binding:"required"`
			VehicleType   string `json:"vehicleType" binding:"required"`
			OwnerName     string `json:"ownerName" binding:"required"`
			PhoneNumber   string `json:"phoneNumber" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		record, err := desk.CheckIn(services.CheckInInput{
			VehicleNumber: input.VehicleNumber,
			VehicleType:   input.VehicleType,
			OwnerName:     input.OwnerName,
			PhoneNumber:   input.PhoneNumber,
		})
		if err != nil {
			var validationErr *services.ValidationError
			var activeErr *services.AlreadyActiveError
			switch {
			case errors.As(err, &validationErr):
				ValidationErrorResponse(c, http.StatusBadRequest, "Check-in rejected", validationErr.Field, validationErr.Error())
			case errors.As(err, &activeErr):
				ErrorResponse(c, http.StatusConflict, "Vehicle is already parked, check it out first", activeErr.Error())
			default:
				ErrorResponse(c, http.StatusInternalServerError, "Check-in failed", err.Error())
			}
			return
		}

		SuccessResponse(c, http.StatusCreated, "Vehicle checked in", record)
	}
}

// CheckOut 車輛出場並結算費用
func CheckOut(desk *services.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		record, err := desk.CheckOut(id)
		if err != nil {
			var notFoundErr *services.NotFoundError
			var checkedOutErr *services.AlreadyCheckedOutError
			switch {
			case errors.As(err, &notFoundErr):
				ErrorResponse(c, http.StatusNotFound, "Parking record not found", notFoundErr.Error())
			case errors.As(err, &checkedOutErr):
				ErrorResponse(c, http.StatusConflict, "Vehicle is already checked out", checkedOutErr.Error())
			default:
				ErrorResponse(c, http.StatusInternalServerError, "Check-out failed", err.Error())
			}
			return
		}

		SuccessResponse(c, http.StatusOK, "Vehicle checked out", record)
	}
}

// ListActive 在場車輛列表，每筆附上即時估算費用
func ListActive(desk *services.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := desk.ListActive()
		if err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to list active vehicles", err.Error())
			return
		}

		records, ok := applyListQuery(c, records)
		if !ok {
			return
		}

		resp := make([]models.ActiveRecordResponse, len(records))
		for i := range records {
			hours, charge := desk.EstimateCharge(&records[i])
			resp[i] = models.ActiveRecordResponse{
				ParkingRecord:        records[i],
				CurrentDurationHours: hours,
				CurrentCharge:        charge,
			}
		}

		SuccessResponse(c, http.StatusOK, "Active vehicles", resp)
	}
}

// ListCompleted 已出場的歷史紀錄，可用 since 限定出場時間
func ListCompleted(desk *services.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			records []models.ParkingRecord
			err     error
		)
		if sinceStr := c.Query("since"); sinceStr != "" {
			since, parseErr := time.Parse(time.RFC3339, sinceStr)
			if parseErr != nil {
				ErrorResponse(c, http.StatusBadRequest, "Invalid since parameter, expected RFC3339", parseErr.Error())
				return
			}
			records, err = desk.ListCompletedSince(since)
		} else {
			records, err = desk.ListCompleted()
		}
		if err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to list completed records", err.Error())
			return
		}

		records, ok := applyListQuery(c, records)
		if !ok {
			return
		}

		SuccessResponse(c, http.StatusOK, "Completed records", records)
	}
}

// ListToday 今天進場或出場的紀錄
func ListToday(desk *services.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := desk.ListToday()
		if err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to list today's records", err.Error())
			return
		}

		records, ok := applyListQuery(c, records)
		if !ok {
			return
		}

		SuccessResponse(c, http.StatusOK, "Today's records", records)
	}
}

// GetTicket 取得掃碼票券內容，給外部的 QR 產生器用
func GetTicket(desk *services.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		record, err := desk.GetRecord(id)
		if err != nil {
			var notFoundErr *services.NotFoundError
			if errors.As(err, &notFoundErr) {
				ErrorResponse(c, http.StatusNotFound, "Parking record not found", notFoundErr.Error())
			} else {
				ErrorResponse(c, http.StatusInternalServerError, "Failed to load parking record", err.Error())
			}
			return
		}

		SuccessResponse(c, http.StatusOK, "Ticket payload", record.ToTicketPayload())
	}
}

// GetSummary 前台統計：在場數、今日出場數、今日與歷史營收
func GetSummary(desk *services.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := desk.Summary()
		if err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "Failed to build summary", err.Error())
			return
		}
		SuccessResponse(c, http.StatusOK, "Desk summary", summary)
	}
}

// applyListQuery 套用 type / q / sort 查詢參數。參數不合法時直接回應並回傳 false
func applyListQuery(c *gin.Context, records []models.ParkingRecord) ([]models.ParkingRecord, bool) {
	if typeStr := c.Query("type"); typeStr != "" {
		vehicleType, ok := models.ParseVehicleType(typeStr)
		if !ok {
			ErrorResponse(c, http.StatusBadRequest, "Invalid type parameter", "type must be one of Bike, Car, SUV, Truck")
			return nil, false
		}
		records = services.FilterByVehicleType(records, vehicleType)
	}
	if q := c.Query("q"); q != "" {
		records = services.FilterByQuery(records, q)
	}
	if order := c.Query("sort"); order != "" {
		switch order {
		case services.SortTimeDesc, services.SortChargeDesc, services.SortDurationDesc, services.SortVehicleNumber:
			records = services.SortRecords(records, order)
		default:
			ErrorResponse(c, http.StatusBadRequest, "Invalid sort parameter",
				"sort must be one of time_desc, charge_desc, duration_desc, vehicle_number")
			return nil, false
		}
	}
	return records, true
}
