package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/internal/app/service"
	"github.com/rdcplates/carte-rose-backend/internal/db"
	"github.com/rdcplates/carte-rose-backend/internal/middleware"
	"github.com/rdcplates/carte-rose-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func setupVehicleControllerTest(t *testing.T) (*gin.Engine, service.VehicleService) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	vehicleRepo := repository.NewVehicleRepository(testDB)
	sequenceRepo := repository.NewPlateSequenceRepository(testDB)
	printHistoryRepo := repository.NewPrintHistoryRepository(testDB)

	plateService := service.NewPlateService(sequenceRepo, testDB)
	qrService := service.NewQRService(vehicleRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, printHistoryRepo, plateService, qrService, testDB)

	ctrl := NewVehicleController(vehicleService, qrService, "Authentys Pro RT1")
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)

	router := gin.New()
	router.GET("/vehicles", ctrl.Search)
	router.GET("/vehicles/:id", ctrl.Get)
	router.GET("/vehicles/chassis/:chassis", ctrl.GetByChassis)
	router.GET("/regions", ctrl.Regions)
	router.POST("/vehicles", authMiddleware.Authenticate(), ctrl.Register)
	router.POST("/vehicles/:id/reprint", authMiddleware.Authenticate(), ctrl.Reprint)
	router.POST("/vehicles/:id/qrcode", authMiddleware.Authenticate(), ctrl.GenerateQR)

	return router, vehicleService
}

func operatorToken(t *testing.T) string {
	tokens, err := util.GenerateTokenPair(1, "operator@dgi.cd", "operator", testJWTSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func authedRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+operatorToken(t))
	return req
}

func TestVehicleController_Register_Success(t *testing.T) {
	router, _ := setupVehicleControllerTest(t)

	req := authedRequest(t, "POST", "/vehicles", RegisterVehicleRequest{
		ChassisNumber: "CTRL00000001",
		RegionCode:    "01",
		DriverName:    "Jean Mukendi",
		Brand:         "Toyota",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	vehicle := response["vehicle"].(map[string]interface{})
	assert.Equal(t, "CTRL00000001", vehicle["chassis_number"])
	assert.Equal(t, "0000AA01", vehicle["plate_sequence"])
	assert.NotEmpty(t, vehicle["unique_plate_number"])
}

func TestVehicleController_Register_RequiresAuth(t *testing.T) {
	router, _ := setupVehicleControllerTest(t)

	body, _ := json.Marshal(RegisterVehicleRequest{ChassisNumber: "NOAUTH000001", RegionCode: "01"})
	req := httptest.NewRequest("POST", "/vehicles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVehicleController_Register_MissingChassis(t *testing.T) {
	router, _ := setupVehicleControllerTest(t)

	// Binding rejects the empty chassis before the service sees it.
	req := authedRequest(t, "POST", "/vehicles", map[string]string{"region_code": "01"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleController_Register_InvalidRegion(t *testing.T) {
	router, _ := setupVehicleControllerTest(t)

	req := authedRequest(t, "POST", "/vehicles", RegisterVehicleRequest{
		ChassisNumber: "BADREGION001",
		RegionCode:    "99",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_INVALID_REGION", response["error"])
}

func TestVehicleController_Register_DuplicateChassis(t *testing.T) {
	router, vehicleService := setupVehicleControllerTest(t)

	_, err := vehicleService.Register(service.RegisterVehicleInput{
		ChassisNumber: "CTRLDUP00001",
		RegionCode:    "01",
	})
	require.NoError(t, err)

	req := authedRequest(t, "POST", "/vehicles", RegisterVehicleRequest{
		ChassisNumber: "CTRLDUP00001",
		RegionCode:    "01",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VEHICLE_CHASSIS_EXISTS", response["error"])
}

func TestVehicleController_GetByChassis_Public(t *testing.T) {
	router, vehicleService := setupVehicleControllerTest(t)

	registered, err := vehicleService.Register(service.RegisterVehicleInput{
		ChassisNumber: "PUBLIC000001",
		RegionCode:    "02",
		DriverName:    "Marie Kabila",
	})
	require.NoError(t, err)

	// No Authorization header: chassis lookup is open to checkpoints.
	req := httptest.NewRequest("GET", "/vehicles/chassis/PUBLIC000001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	vehicle := response["vehicle"].(map[string]interface{})
	assert.Equal(t, float64(registered.ID), vehicle["id"])
	assert.Equal(t, "0000AA02", vehicle["plate_sequence"])
}

func TestVehicleController_Get_NotFound(t *testing.T) {
	router, _ := setupVehicleControllerTest(t)

	req := httptest.NewRequest("GET", "/vehicles/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest("GET", "/vehicles/chassis/NOSUCH", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVehicleController_Search_Pagination(t *testing.T) {
	router, vehicleService := setupVehicleControllerTest(t)

	for i := 0; i < 25; i++ {
		_, err := vehicleService.Register(service.RegisterVehicleInput{
			ChassisNumber: fmt.Sprintf("LIST%08d", i),
			RegionCode:    "01",
		})
		require.NoError(t, err)
	}

	req := httptest.NewRequest("GET", "/vehicles?chassis=LIST&limit=10&offset=20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(25), response["total"])
	assert.Len(t, response["vehicles"].([]interface{}), 5)
}

func TestVehicleController_Reprint(t *testing.T) {
	router, vehicleService := setupVehicleControllerTest(t)

	registered, err := vehicleService.Register(service.RegisterVehicleInput{
		ChassisNumber: "CTRLREP00001",
		RegionCode:    "01",
	})
	require.NoError(t, err)

	req := authedRequest(t, "POST", fmt.Sprintf("/vehicles/%d/reprint", registered.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	vehicle := response["vehicle"].(map[string]interface{})
	assert.Equal(t, true, vehicle["is_reprinted"])
}

func TestVehicleController_Reprint_NotFound(t *testing.T) {
	router, _ := setupVehicleControllerTest(t)

	req := authedRequest(t, "POST", "/vehicles/UNKNOWNREF/reprint", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVehicleController_GenerateQR(t *testing.T) {
	router, vehicleService := setupVehicleControllerTest(t)

	registered, err := vehicleService.Register(service.RegisterVehicleInput{
		ChassisNumber: "CTRLQR000001",
		RegionCode:    "01",
	})
	require.NoError(t, err)

	req := authedRequest(t, "POST", fmt.Sprintf("/vehicles/%d/qrcode", registered.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["qr_code_data"])
	assert.NotEmpty(t, response["qr_code_image"])
}

func TestVehicleController_Regions(t *testing.T) {
	router, _ := setupVehicleControllerTest(t)

	req := httptest.NewRequest("GET", "/regions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	regions := response["regions"].([]interface{})
	require.Len(t, regions, 26)

	first := regions[0].(map[string]interface{})
	assert.Equal(t, "01", first["code"])
	assert.Equal(t, "Kinshasa", first["name"])
}
