package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/database"
	"github.com/javajoker/imob-backoffice/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func seedBranch(t *testing.T, db *gorm.DB, name, code string) models.Branch {
	t.Helper()
	branch := models.Branch{Name: name, Code: code, Active: true}
	require.NoError(t, db.Create(&branch).Error)
	return branch
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role, branchID *uuid.UUID) *models.User {
	t.Helper()
	user := &models.User{
		Name:        "User " + email,
		Email:       email,
		Role:        role,
		BranchID:    branchID,
		Permissions: models.DefaultPermissions(role),
		Active:      true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedEmployee(t *testing.T, db *gorm.DB, email, cpf string, branchID uuid.UUID, managerID *uuid.UUID) models.Employee {
	t.Helper()
	employee := models.Employee{
		Name:      "Employee " + email,
		Email:     email,
		CPF:       cpf,
		Position:  "broker",
		BranchID:  branchID,
		ManagerID: managerID,
		Active:    true,
	}
	require.NoError(t, db.Create(&employee).Error)
	return employee
}
