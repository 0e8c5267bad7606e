package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var contractNumberPattern = regexp.MustCompile(`^CT-\d{6}-[A-Z0-9]{6}$`)

func TestContractServiceCreate(t *testing.T) {
	db := newTestDB(t)
	storage, _ := newLocalStorage(t)
	svc := NewContractService(db, storage)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	scope := Scope{BranchID: &branch.ID}

	contract, err := svc.Create(ctx, scope, &CreateContractRequest{
		Type:       "sale",
		ClientName: "Roberto Lima",
		ClientCPF:  "111.444.777-35",
		Value:      450000,
		Commission: 27000,
	})
	require.NoError(t, err)
	assert.Regexp(t, contractNumberPattern, contract.Number)
	assert.Equal(t, "11144477735", contract.ClientCPF)
	assert.EqualValues(t, "draft", contract.Status)
	require.NotNil(t, contract.Branch)
	assert.Equal(t, "CENTRO", contract.Branch.Code)

	t.Run("supplied number is kept and unique", func(t *testing.T) {
		req := &CreateContractRequest{Number: "ct-manual-1", Type: "rental", ClientName: "Paula", Value: 2500}
		created, err := svc.Create(ctx, scope, req)
		require.NoError(t, err)
		assert.Equal(t, "CT-MANUAL-1", created.Number)

		_, err = svc.Create(ctx, scope, req)
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("end before start", func(t *testing.T) {
		start := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		_, err := svc.Create(ctx, scope, &CreateContractRequest{
			Type: "rental", ClientName: "Paula", Value: 2500, StartDate: &start, EndDate: &end,
		})
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("unknown employee", func(t *testing.T) {
		missing := branch.ID
		_, err := svc.Create(ctx, scope, &CreateContractRequest{
			Type: "rental", ClientName: "Paula", Value: 2500, EmployeeID: &missing,
		})
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestContractServiceDocument(t *testing.T) {
	db := newTestDB(t)
	storage, _ := newLocalStorage(t)
	svc := NewContractService(db, storage)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	scope := Scope{BranchID: &branch.ID}

	contract, err := svc.Create(ctx, scope, &CreateContractRequest{Type: "sale", ClientName: "Roberto", Value: 1000})
	require.NoError(t, err)

	_, err = svc.DocumentURL(ctx, scope, contract.ID, time.Minute)
	assert.True(t, errors.Is(err, ErrNotFound))

	pdf := []byte("%PDF-1.4\n1 0 obj\n")
	updated, err := svc.UploadDocument(ctx, scope, contract.ID, &Upload{
		Filename: "signed.pdf",
		Size:     int64(len(pdf)),
		Body:     bytes.NewReader(pdf),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, updated.DocumentURL)

	// Local files are served as they are.
	url, err := svc.DocumentURL(ctx, scope, contract.ID, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, updated.DocumentURL, url)
}

func TestContractServiceDocumentCleansUpOnSaveFailure(t *testing.T) {
	db := newTestDB(t)
	storage, dir := newLocalStorage(t)
	svc := NewContractService(db, storage)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	scope := Scope{BranchID: &branch.ID}
	contract, err := svc.Create(ctx, scope, &CreateContractRequest{Type: "sale", ClientName: "Roberto", Value: 1000})
	require.NoError(t, err)

	saveFailed := errors.New("connection lost")
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		tx.AddError(saveFailed)
	}))

	pdf := []byte("%PDF-1.4\n1 0 obj\n")
	_, err = svc.UploadDocument(ctx, scope, contract.ID, &Upload{
		Filename: "signed.pdf",
		Size:     int64(len(pdf)),
		Body:     bytes.NewReader(pdf),
	})
	assert.ErrorIs(t, err, saveFailed)

	entries, err := os.ReadDir(filepath.Join(dir, "contracts", contract.ID.String()))
	if err == nil {
		assert.Empty(t, entries)
	} else {
		assert.True(t, os.IsNotExist(err))
	}
}
