package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parkdesk/models"
	"parkdesk/routes"
	"parkdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.ParkingRecord{}))

	desk := services.NewDesk(db)

	r := gin.New()
	api := r.Group("/api")
	routes.Path(api, desk)
	return r
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

const checkinBody = `{"vehicleNumber":"MH12AB1234","vehicleType":"Car","ownerName":"Asha","phoneNumber":"9876543210"}`

func TestCheckInEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, envelope := doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, envelope.Status)

	var record models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "MH12AB1234", record.VehicleNumber)
	assert.Equal(t, models.StatusActive, record.Status)

	// 在場紀錄的回應不該帶出場欄位
	assert.NotContains(t, string(envelope.Data), "checkOutTime")
	assert.NotContains(t, string(envelope.Data), "charge")
}

func TestCheckInEndpointValidation(t *testing.T) {
	r := newTestRouter(t)

	body := `{"vehicleNumber":"MH12AB1234","vehicleType":"Car","ownerName":"Asha","phoneNumber":"1234567890"}`
	w, envelope := doRequest(t, r, http.MethodPost, "/api/records/checkin", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Status)
	assert.Equal(t, "phoneNumber", envelope.Field)
}

func TestCheckInEndpointConflict(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w, envelope := doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, envelope.Error, "MH12AB1234")
	assert.Contains(t, envelope.Error, "check it out first")
}

func TestCheckOutEndpoint(t *testing.T) {
	r := newTestRouter(t)

	_, envelope := doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)
	var record models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &record))

	w, envelope := doRequest(t, r, http.MethodPost, "/api/records/"+record.ID+"/checkout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var completed models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &completed))
	assert.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.Charge)
	assert.Equal(t, 10, *completed.Charge) // 剛進場就出場，落在低價區間
	assert.NotNil(t, completed.CheckOutTime)
	assert.NotNil(t, completed.DurationHours)

	// 重複出場要吃 409
	w, _ = doRequest(t, r, http.MethodPost, "/api/records/"+record.ID+"/checkout", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckOutEndpointNotFound(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doRequest(t, r, http.MethodPost, "/api/records/no-such-id/checkout", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListActiveEndpoint(t *testing.T) {
	r := newTestRouter(t)

	_, _ = doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)

	w, envelope := doRequest(t, r, http.MethodGet, "/api/records/active", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var active []models.ActiveRecordResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &active))
	require.Len(t, active, 1)
	assert.Equal(t, "MH12AB1234", active[0].VehicleNumber)
	assert.Equal(t, 10, active[0].CurrentCharge) // 剛進場的即時估算就是低價區間
}

func TestListEndpointsRejectBadParams(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doRequest(t, r, http.MethodGet, "/api/records/active?type=Bus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/api/records/completed?sort=favorite_color", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/api/records/completed?since=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompletedEndpointWithFilters(t *testing.T) {
	r := newTestRouter(t)

	_, envelope := doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)
	var record models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &record))
	_, _ = doRequest(t, r, http.MethodPost, "/api/records/"+record.ID+"/checkout", "")

	truckBody := `{"vehicleNumber":"KA05MH9999","vehicleType":"Truck","ownerName":"Ravi","phoneNumber":"9123456789"}`
	_, envelope = doRequest(t, r, http.MethodPost, "/api/records/checkin", truckBody)
	var truck models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &truck))
	_, _ = doRequest(t, r, http.MethodPost, "/api/records/"+truck.ID+"/checkout", "")

	w, envelope := doRequest(t, r, http.MethodGet, "/api/records/completed", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var completed []models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &completed))
	assert.Len(t, completed, 2)

	w, envelope = doRequest(t, r, http.MethodGet, "/api/records/completed?type=Truck", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(envelope.Data, &completed))
	require.Len(t, completed, 1)
	assert.Equal(t, "KA05MH9999", completed[0].VehicleNumber)

	w, envelope = doRequest(t, r, http.MethodGet, "/api/records/completed?q=asha", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(envelope.Data, &completed))
	require.Len(t, completed, 1)
	assert.Equal(t, "MH12AB1234", completed[0].VehicleNumber)
}

func TestTicketEndpoint(t *testing.T) {
	r := newTestRouter(t)

	_, envelope := doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)
	var record models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &record))

	w, envelope := doRequest(t, r, http.MethodGet, "/api/records/"+record.ID+"/ticket", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var payload models.TicketPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, record.ID, payload.ID)
	assert.Equal(t, "MH12AB1234", payload.VehicleNumber)
	assert.Equal(t, models.VehicleTypeCar, payload.VehicleType)
	assert.Equal(t, "Asha", payload.OwnerName)
	assert.Equal(t, "9876543210", payload.PhoneNumber)
	assert.False(t, payload.CheckInTime.IsZero())

	w, _ = doRequest(t, r, http.MethodGet, "/api/records/no-such-id/ticket", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	r := newTestRouter(t)

	_, envelope := doRequest(t, r, http.MethodPost, "/api/records/checkin", checkinBody)
	var record models.ParkingRecord
	require.NoError(t, json.Unmarshal(envelope.Data, &record))
	_, _ = doRequest(t, r, http.MethodPost, "/api/records/"+record.ID+"/checkout", "")

	truckBody := `{"vehicleNumber":"KA05MH9999","vehicleType":"Truck","ownerName":"Ravi","phoneNumber":"9123456789"}`
	_, _ = doRequest(t, r, http.MethodPost, "/api/records/checkin", truckBody)

	w, envelope := doRequest(t, r, http.MethodGet, "/api/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var summary services.DeskSummary
	require.NoError(t, json.Unmarshal(envelope.Data, &summary))
	assert.Equal(t, int64(1), summary.ActiveCount)
	assert.Equal(t, int64(1), summary.CompletedToday)
	assert.Equal(t, int64(10), summary.RevenueToday)
	assert.Equal(t, int64(10), summary.RevenueTotal)
}
