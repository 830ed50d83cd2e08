package population

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	models.PasswordCost = bcrypt.MinCost
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Installation{}, &models.MaintenanceRequest{}, &models.ServiceTicket{}, &models.Schedule{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Phone:    "5551234567",
		Address:  models.Address{Street: "1 Sun St", City: "Phoenix", State: "AZ", ZipCode: "85001"},
		IsActive: true,
	}
	u.SetPassword("secret123")
	require.NoError(t, db.Create(u).Error)
	return u
}

func createInstallation(t *testing.T, db *gorm.DB, customerID uint) *models.Installation {
	t.Helper()
	inst := &models.Installation{
		CustomerID:     customerID,
		Address:        models.Address{Street: "9 Ray Rd", City: "Mesa", State: "AZ", ZipCode: "85201"},
		SystemSize:     6.5,
		PanelType:      "polycrystalline",
		NumberOfPanels: 16,
		EstimatedCost:  18000,
	}
	require.NoError(t, db.Create(inst).Error)
	return inst
}

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestInstallationsListProjection(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "Cora", "cora@example.com", models.RoleCustomer)
	tech := createUser(t, db, "Tom", "tom@example.com", models.RoleTechnician)

	inst := createInstallation(t, db, customer.ID)
	inst.AssignedTechnicianID = &tech.ID
	require.NoError(t, db.Save(inst).Error)

	views, err := NewLoader(context.Background(), db).Installations([]models.Installation{*inst}, List)
	require.NoError(t, err)
	require.Len(t, views, 1)

	out := toMap(t, views[0])
	assert.Equal(t, map[string]any{
		"id": float64(customer.ID), "name": "Cora", "email": "cora@example.com", "phone": "5551234567",
	}, out["customer"])
	assert.Equal(t, map[string]any{
		"id": float64(tech.ID), "name": "Tom", "email": "tom@example.com",
	}, out["assignedTechnician"])
	assert.Nil(t, out["approvedBy"])
	assert.Equal(t, 6.5, out["systemSize"])
	assert.NotContains(t, out, "password")
}

func TestInstallationsDetailProjection(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "Cora", "cora@example.com", models.RoleCustomer)
	manager := createUser(t, db, "Mia", "mia@example.com", models.RoleManager)

	inst := createInstallation(t, db, customer.ID)
	inst.ApprovedByID = &manager.ID
	require.NoError(t, db.Save(inst).Error)

	views, err := NewLoader(context.Background(), db).Installations([]models.Installation{*inst}, Detail)
	require.NoError(t, err)

	out := toMap(t, views[0])
	cust := out["customer"].(map[string]any)
	assert.Contains(t, cust, "address")
	assert.Equal(t, map[string]any{"id": float64(manager.ID), "name": "Mia", "email": "mia@example.com"}, out["approvedBy"])
}

func TestDanglingReferenceRendersNull(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "Gone", "gone@example.com", models.RoleCustomer)
	inst := createInstallation(t, db, customer.ID)
	require.NoError(t, db.Delete(&models.User{}, customer.ID).Error)

	views, err := NewLoader(context.Background(), db).Installations([]models.Installation{*inst}, List)
	require.NoError(t, err)

	out := toMap(t, views[0])
	assert.Contains(t, out, "customer")
	assert.Nil(t, out["customer"])
}

func TestMaintenanceProjection(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "Cora", "cora@example.com", models.RoleCustomer)
	inst := createInstallation(t, db, customer.ID)

	m := &models.MaintenanceRequest{CustomerID: customer.ID, InstallationID: inst.ID, RequestType: "repair", Description: "Inverter fault"}
	require.NoError(t, db.Create(m).Error)

	loader := NewLoader(context.Background(), db)
	list, err := loader.Maintenance([]models.MaintenanceRequest{*m}, List)
	require.NoError(t, err)
	installation := toMap(t, list[0])["installation"].(map[string]any)
	assert.Equal(t, 6.5, installation["systemSize"])
	assert.NotContains(t, installation, "panelType")

	detail, err := loader.Maintenance([]models.MaintenanceRequest{*m}, Detail)
	require.NoError(t, err)
	installation = toMap(t, detail[0])["installation"].(map[string]any)
	assert.Equal(t, "polycrystalline", installation["panelType"])
}

func TestTicketProjection(t *testing.T) {
	db := setupDB(t)
	customer := createUser(t, db, "Cora", "cora@example.com", models.RoleCustomer)
	inst := createInstallation(t, db, customer.ID)
	m := &models.MaintenanceRequest{CustomerID: customer.ID, InstallationID: inst.ID, RequestType: "repair", Description: "Inverter fault"}
	require.NoError(t, db.Create(m).Error)

	ticket := &models.ServiceTicket{
		Title:                 "Still broken",
		Description:           "Repair did not help",
		Category:              "technical",
		CreatedByID:           customer.ID,
		RelatedInstallationID: &inst.ID,
		RelatedMaintenanceID:  &m.ID,
	}
	require.NoError(t, db.Create(ticket).Error)

	views, err := NewLoader(context.Background(), db).Tickets([]models.ServiceTicket{*ticket}, List)
	require.NoError(t, err)
	out := toMap(t, views[0])

	assert.Equal(t, map[string]any{"id": float64(customer.ID), "name": "Cora", "email": "cora@example.com"}, out["createdBy"])
	assert.Nil(t, out["assignedTo"])
	assert.Equal(t, map[string]any{"id": float64(m.ID), "description": "Inverter fault"}, out["relatedMaintenance"])
	assert.Equal(t, ticket.TicketNumber, out["ticketNumber"])
}

func TestEmptyRows(t *testing.T) {
	db := setupDB(t)
	views, err := NewLoader(context.Background(), db).Schedules(nil, List)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NotNil(t, views, "empty lists serialise as []")
}
