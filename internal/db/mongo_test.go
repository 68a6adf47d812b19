package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alioucisse7/truck-management/internal/models"
)

func TestConnectMongo_BadURI(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://bad:uri")
	defer os.Unsetenv("MONGO_URI")

	client, err := ConnectMongo()
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

// Integration test (requires running MongoDB)
func TestMongoInvoiceCollection_NextInvoiceSequence(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	database := client.Database("test_fleet")
	database.Collection("invoice_counters").Drop(context.Background())

	invoices := &MongoInvoiceCollection{
		Collection: database.Collection("invoices"),
		Counters:   database.Collection("invoice_counters"),
	}

	companyA := primitive.NewObjectID()
	companyB := primitive.NewObjectID()

	// Sequences start at 1 and advance per company and year
	seq, err := invoices.NextInvoiceSequence(context.Background(), companyA, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = invoices.NextInvoiceSequence(context.Background(), companyA, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	seq, err = invoices.NextInvoiceSequence(context.Background(), companyA, 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = invoices.NextInvoiceSequence(context.Background(), companyB, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

// Integration test (requires running MongoDB)
func TestMongoTripCollection_FindCompletedTrips(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_fleet").Collection("trips")
	collection.Drop(context.Background())

	trips := &MongoTripCollection{Collection: collection}
	companyID := primitive.NewObjectID()

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	inside := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	afterRange := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)

	_, err = trips.InsertTrip(context.Background(), models.Trip{
		CompanyID: companyID, Status: models.TripCompleted,
		StartLocation: "Conakry", Destination: "Kankan",
		StartDate: from.AddDate(0, 0, 9), EndDate: &inside,
	})
	require.NoError(t, err)

	// Started in range but ended after it: not billable for this period
	_, err = trips.InsertTrip(context.Background(), models.Trip{
		CompanyID: companyID, Status: models.TripCompleted,
		StartLocation: "Conakry", Destination: "Labé",
		StartDate: from.AddDate(0, 0, 25), EndDate: &afterRange,
	})
	require.NoError(t, err)

	// Never closed out
	_, err = trips.InsertTrip(context.Background(), models.Trip{
		CompanyID: companyID, Status: models.TripCompleted,
		StartLocation: "Conakry", Destination: "Boké",
		StartDate: from.AddDate(0, 0, 5),
	})
	require.NoError(t, err)

	// Still running
	_, err = trips.InsertTrip(context.Background(), models.Trip{
		CompanyID: companyID, Status: models.TripInProgress,
		StartLocation: "Conakry", Destination: "Kindia",
		StartDate: from.AddDate(0, 0, 10), EndDate: &inside,
	})
	require.NoError(t, err)

	found, err := trips.FindCompletedTrips(context.Background(), companyID, from, to)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Kankan", found[0].Destination)
}

// Integration test (requires running MongoDB)
func TestMongoFinanceCollection_Aggregations(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_fleet").Collection("finances")
	collection.Drop(context.Background())

	finances := &MongoFinanceCollection{Collection: collection}
	companyID := primitive.NewObjectID()
	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	records := []models.FinanceRecord{
		{CompanyID: companyID, Type: models.FinanceIncome, Category: models.CategoryTripRevenue, Amount: 1000000, Date: date},
		{CompanyID: companyID, Type: models.FinanceExpense, Category: models.CategoryTripExpenses, Amount: 310000, Date: date},
		{CompanyID: companyID, Type: models.FinanceExpense, Category: models.CategoryFuel, Amount: 150000, Date: date},
		{CompanyID: primitive.NewObjectID(), Type: models.FinanceIncome, Category: models.CategoryTripRevenue, Amount: 999, Date: date},
	}
	require.NoError(t, finances.InsertFinanceRecords(context.Background(), records))

	// Fuel records are excluded from the expense total to avoid counting the
	// trip fuel twice
	expenses, err := finances.SumAmounts(context.Background(), companyID, FinanceQuery{
		Type:              models.FinanceExpense,
		ExcludeCategories: []string{models.CategoryFuel},
	})
	require.NoError(t, err)
	assert.Equal(t, 310000.0, expenses)

	income, err := finances.SumAmounts(context.Background(), companyID, FinanceQuery{Type: models.FinanceIncome})
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, income)

	totals, err := finances.CategoryTotals(context.Background(), companyID, FinanceQuery{})
	require.NoError(t, err)
	assert.Len(t, totals, 3)

	monthly, err := finances.MonthlyTotals(context.Background(), companyID, 2026, FinanceQuery{Type: models.FinanceIncome})
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, monthly[3])
}
