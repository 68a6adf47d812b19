package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/middleware"
	"github.com/alioucisse7/truck-management/internal/models"
)

// authedRequest builds a request carrying the given claims, the way the
// authentication middleware would have populated it.
func authedRequest(t *testing.T, method, target string, body any, claims *models.Claims) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if claims != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	}
	return req
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func managerClaims(companyID primitive.ObjectID) *models.Claims {
	return &models.Claims{
		UserID:    primitive.NewObjectID().Hex(),
		Email:     "manager@example.com",
		Role:      models.RoleManager,
		CompanyID: companyID.Hex(),
		Exp:       time.Now().Add(time.Hour).Unix(),
	}
}

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

var _ db.UserCollection = (*MockUserCollection)(nil)

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsers(ctx context.Context, companyID primitive.ObjectID) ([]models.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) DeleteUser(ctx context.Context, companyID primitive.ObjectID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCompanyCollection is a mock implementation of db.CompanyCollection
type MockCompanyCollection struct {
	mock.Mock
}

var _ db.CompanyCollection = (*MockCompanyCollection)(nil)

func (m *MockCompanyCollection) InsertCompany(ctx context.Context, company models.Company) (primitive.ObjectID, error) {
	args := m.Called(ctx, company)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockCompanyCollection) FindCompanyByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyCollection) UpdateCompany(ctx context.Context, id primitive.ObjectID, company models.Company) error {
	args := m.Called(ctx, id, company)
	return args.Error(0)
}

// MockSettingsCollection is a mock implementation of db.SettingsCollection
type MockSettingsCollection struct {
	mock.Mock
}

var _ db.SettingsCollection = (*MockSettingsCollection)(nil)

func (m *MockSettingsCollection) FindSettings(ctx context.Context, companyID primitive.ObjectID) (*models.Settings, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsCollection) InsertSettings(ctx context.Context, settings models.Settings) (*models.Settings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsCollection) UpdateSettings(ctx context.Context, companyID primitive.ObjectID, settings models.Settings) (*models.Settings, error) {
	args := m.Called(ctx, companyID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

// MockTripCollection is a mock implementation of db.TripCollection
type MockTripCollection struct {
	mock.Mock
}

var _ db.TripCollection = (*MockTripCollection)(nil)

func (m *MockTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (primitive.ObjectID, error) {
	args := m.Called(ctx, trip)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTripCollection) FindTrips(ctx context.Context, companyID primitive.ObjectID, query db.TripQuery) ([]models.Trip, error) {
	args := m.Called(ctx, companyID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripCollection) FindTripByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Trip, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripCollection) UpdateTrip(ctx context.Context, companyID primitive.ObjectID, id string, trip models.Trip) error {
	args := m.Called(ctx, companyID, id, trip)
	return args.Error(0)
}

func (m *MockTripCollection) DeleteTrip(ctx context.Context, companyID primitive.ObjectID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockTripCollection) FindCompletedTrips(ctx context.Context, companyID primitive.ObjectID, from, to time.Time) ([]models.Trip, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripCollection) FindRecentTrips(ctx context.Context, companyID primitive.ObjectID, limit int64) ([]models.Trip, error) {
	args := m.Called(ctx, companyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripCollection) CountTripsByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.TripStatus]int, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.TripStatus]int), args.Error(1)
}

// MockTruckCollection is a mock implementation of db.TruckCollection
type MockTruckCollection struct {
	mock.Mock
}

var _ db.TruckCollection = (*MockTruckCollection)(nil)

func (m *MockTruckCollection) InsertTruck(ctx context.Context, truck models.Truck) (primitive.ObjectID, error) {
	args := m.Called(ctx, truck)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTruckCollection) FindTrucks(ctx context.Context, companyID primitive.ObjectID, status models.TruckStatus) ([]models.Truck, error) {
	args := m.Called(ctx, companyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Truck), args.Error(1)
}

func (m *MockTruckCollection) FindTruckByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Truck, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Truck), args.Error(1)
}

func (m *MockTruckCollection) UpdateTruck(ctx context.Context, companyID primitive.ObjectID, id string, truck models.Truck) error {
	args := m.Called(ctx, companyID, id, truck)
	return args.Error(0)
}

func (m *MockTruckCollection) UpdateTruckStatus(ctx context.Context, id primitive.ObjectID, status models.TruckStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTruckCollection) ApplyTelemetry(ctx context.Context, id primitive.ObjectID, fuelLevel float64, location models.Location) error {
	args := m.Called(ctx, id, fuelLevel, location)
	return args.Error(0)
}

func (m *MockTruckCollection) DeleteTruck(ctx context.Context, companyID primitive.ObjectID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockTruckCollection) CountTrucksByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.TruckStatus]int, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.TruckStatus]int), args.Error(1)
}

// MockDriverCollection is a mock implementation of db.DriverCollection
type MockDriverCollection struct {
	mock.Mock
}

var _ db.DriverCollection = (*MockDriverCollection)(nil)

func (m *MockDriverCollection) InsertDriver(ctx context.Context, driver models.Driver) (primitive.ObjectID, error) {
	args := m.Called(ctx, driver)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockDriverCollection) FindDrivers(ctx context.Context, companyID primitive.ObjectID, status models.DriverStatus) ([]models.Driver, error) {
	args := m.Called(ctx, companyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Driver), args.Error(1)
}

func (m *MockDriverCollection) FindDriverByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Driver, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverCollection) FindDriverByUserID(ctx context.Context, companyID, userID primitive.ObjectID) (*models.Driver, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverCollection) UpdateDriver(ctx context.Context, companyID primitive.ObjectID, id string, driver models.Driver) error {
	args := m.Called(ctx, companyID, id, driver)
	return args.Error(0)
}

func (m *MockDriverCollection) UpdateDriverStatus(ctx context.Context, id primitive.ObjectID, status models.DriverStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDriverCollection) DeleteDriver(ctx context.Context, companyID primitive.ObjectID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockDriverCollection) CountDriversByStatus(ctx context.Context, companyID primitive.ObjectID) (map[models.DriverStatus]int, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.DriverStatus]int), args.Error(1)
}

// MockInvoiceCollection is a mock implementation of db.InvoiceCollection
type MockInvoiceCollection struct {
	mock.Mock
}

var _ db.InvoiceCollection = (*MockInvoiceCollection)(nil)

func (m *MockInvoiceCollection) InsertInvoice(ctx context.Context, invoice models.Invoice) (primitive.ObjectID, error) {
	args := m.Called(ctx, invoice)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockInvoiceCollection) FindInvoices(ctx context.Context, companyID primitive.ObjectID, status models.InvoiceStatus) ([]models.Invoice, error) {
	args := m.Called(ctx, companyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceCollection) FindInvoiceByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceCollection) UpdateInvoice(ctx context.Context, companyID primitive.ObjectID, id string, invoice models.Invoice) error {
	args := m.Called(ctx, companyID, id, invoice)
	return args.Error(0)
}

func (m *MockInvoiceCollection) DeleteInvoice(ctx context.Context, companyID primitive.ObjectID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockInvoiceCollection) NextInvoiceSequence(ctx context.Context, companyID primitive.ObjectID, year int) (int, error) {
	args := m.Called(ctx, companyID, year)
	return args.Int(0), args.Error(1)
}

// MockFinanceCollection is a mock implementation of db.FinanceCollection
type MockFinanceCollection struct {
	mock.Mock
}

var _ db.FinanceCollection = (*MockFinanceCollection)(nil)

func (m *MockFinanceCollection) InsertFinanceRecord(ctx context.Context, record models.FinanceRecord) (primitive.ObjectID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockFinanceCollection) InsertFinanceRecords(ctx context.Context, records []models.FinanceRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockFinanceCollection) FindFinanceRecords(ctx context.Context, companyID primitive.ObjectID, query db.FinanceQuery) ([]models.FinanceRecord, error) {
	args := m.Called(ctx, companyID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FinanceRecord), args.Error(1)
}

func (m *MockFinanceCollection) FindFinanceRecordByID(ctx context.Context, companyID primitive.ObjectID, id string) (*models.FinanceRecord, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FinanceRecord), args.Error(1)
}

func (m *MockFinanceCollection) UpdateFinanceRecord(ctx context.Context, companyID primitive.ObjectID, id string, record models.FinanceRecord) error {
	args := m.Called(ctx, companyID, id, record)
	return args.Error(0)
}

func (m *MockFinanceCollection) DeleteFinanceRecord(ctx context.Context, companyID primitive.ObjectID, id string) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockFinanceCollection) DeleteFinanceRecordsByTrip(ctx context.Context, companyID, tripID primitive.ObjectID) error {
	args := m.Called(ctx, companyID, tripID)
	return args.Error(0)
}

func (m *MockFinanceCollection) SumAmounts(ctx context.Context, companyID primitive.ObjectID, query db.FinanceQuery) (float64, error) {
	args := m.Called(ctx, companyID, query)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFinanceCollection) CategoryTotals(ctx context.Context, companyID primitive.ObjectID, query db.FinanceQuery) ([]models.CategoryTotal, error) {
	args := m.Called(ctx, companyID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryTotal), args.Error(1)
}

func (m *MockFinanceCollection) MonthlyTotals(ctx context.Context, companyID primitive.ObjectID, year int, query db.FinanceQuery) (map[int]float64, error) {
	args := m.Called(ctx, companyID, year, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]float64), args.Error(1)
}
