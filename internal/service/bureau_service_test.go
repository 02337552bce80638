package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/scope"
)

type bureauFixture struct {
	svc     *BureauService
	bureaus *fakeBureauRepo
	workers *fakeWorkerRepo
	auditor *fakeAuditor
	admin   *models.Administrator
}

func newBureauFixture(t *testing.T) *bureauFixture {
	t.Helper()

	admins := newFakeAdminRepo()
	bureaus := newFakeBureauRepo()
	workers := newFakeWorkerRepo()
	auditor := &fakeAuditor{}

	h := testHasher()
	pinHash, err := h.HashPIN("4321")
	require.NoError(t, err)

	admin := &models.Administrator{
		Surname:     "Mensah",
		Firstname:   "Akosua",
		PhoneNumber: "0244000001",
		PINHash:     pinHash,
		Scope:       scope.NewSet(scope.AddBureau, scope.ViewBureaus, scope.GetOneBureau).String(),
	}
	require.NoError(t, admins.Create(context.Background(), admin))

	svc := NewBureauService(newTestGuard(admins, &fakeRevoker{}, auditor), bureaus, workers)
	return &bureauFixture{svc: svc, bureaus: bureaus, workers: workers, auditor: auditor, admin: admin}
}

func bureauRequest() BureauAddRequest {
	return BureauAddRequest{
		Name:            "Kantamanto Forex",
		HQGPSAddress:    "GA-183-8164",
		HQLocation:      "Accra Central",
		TIN:             "C0012345678",
		Phone1:          "0302000111",
		WorkerSurname:   "Owusu",
		WorkerFirstname: "Kwame",
		WorkerPhone:     "0244555666",
		PIN:             "4321",
	}
}

func TestBureauAddCreatesBureauBranchAndWorker(t *testing.T) {
	f := newBureauFixture(t)

	res, err := f.svc.Add(context.Background(), principalFor(f.admin), bureauRequest())
	require.NoError(t, err)

	assert.False(t, res.BureauUpdated)
	assert.Equal(t, "Kantamanto Forex", res.Bureau.Name)
	assert.Equal(t, f.admin.AdminID, res.Bureau.CreatorAdminID)

	require.NotNil(t, res.Branch)
	assert.Equal(t, "Head Office", res.Branch.Name)
	assert.True(t, res.Branch.IsHQ)
	assert.Equal(t, "GA-183-8164C00123456780302000111", res.Branch.ExtID)
	assert.Equal(t, res.Bureau.BureauID, res.Branch.BureauID)

	require.NotNil(t, res.Worker)
	expectedExtID := fmt.Sprintf("%d-%d-%s", res.Bureau.BureauID, res.Branch.BranchID, "0244555666")
	assert.Equal(t, expectedExtID, res.Worker.ExtID)
	assert.True(t, res.Worker.WasFirst)
}

func TestBureauAddSetsWorkerInitialCredentialsFromTIN(t *testing.T) {
	f := newBureauFixture(t)

	res, err := f.svc.Add(context.Background(), principalFor(f.admin), bureauRequest())
	require.NoError(t, err)

	h := testHasher()
	assert.True(t, h.VerifyPassword("C0012345678", res.Worker.PasswordHash))
	assert.True(t, h.VerifyPIN("5678", res.Worker.PINHash))
}

func TestBureauAddGrantsWorkerDefaultScope(t *testing.T) {
	f := newBureauFixture(t)

	res, err := f.svc.Add(context.Background(), principalFor(f.admin), bureauRequest())
	require.NoError(t, err)
	assert.Equal(t, scope.WorkerDefault().String(), res.Worker.Scope)
}

func TestBureauAddSecondTimeUpdatesInPlace(t *testing.T) {
	f := newBureauFixture(t)

	first, err := f.svc.Add(context.Background(), principalFor(f.admin), bureauRequest())
	require.NoError(t, err)

	req := bureauRequest()
	req.Name = "Kantamanto Forex Ltd"
	req.WorkerPosition = "Manager"
	second, err := f.svc.Add(context.Background(), principalFor(f.admin), req)
	require.NoError(t, err)

	assert.True(t, second.BureauUpdated)
	assert.Equal(t, first.Bureau.BureauID, second.Bureau.BureauID)
	assert.Equal(t, "Kantamanto Forex Ltd", second.Bureau.Name)
	assert.Equal(t, first.Branch.BranchID, second.Branch.BranchID)
	assert.Equal(t, first.Worker.WorkerID, second.Worker.WorkerID)
	assert.Equal(t, "Manager", second.Worker.Position)
	assert.Len(t, f.bureaus.bureaus, 1)
	assert.Len(t, f.workers.workers, 1)
}

func TestBureauAddWithoutCapability(t *testing.T) {
	f := newBureauFixture(t)
	f.admin.Scope = scope.NewSet(scope.ViewBureaus).String()

	_, err := f.svc.Add(context.Background(), principalFor(f.admin), bureauRequest())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Empty(t, f.bureaus.bureaus)
}

func TestBureauAddWrongPIN(t *testing.T) {
	f := newBureauFixture(t)

	req := bureauRequest()
	req.PIN = "0000"
	_, err := f.svc.Add(context.Background(), principalFor(f.admin), req)
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	assert.Empty(t, f.bureaus.bureaus)
}

func TestBureauAddShortTIN(t *testing.T) {
	f := newBureauFixture(t)

	req := bureauRequest()
	req.TIN = "C01"
	_, err := f.svc.Add(context.Background(), principalFor(f.admin), req)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestBureauGetOneCountsBranches(t *testing.T) {
	f := newBureauFixture(t)

	res, err := f.svc.Add(context.Background(), principalFor(f.admin), bureauRequest())
	require.NoError(t, err)

	bureau, err := f.svc.GetOne(context.Background(), principalFor(f.admin), res.Bureau.BureauID)
	require.NoError(t, err)
	assert.Equal(t, 1, bureau.NumBranches)
}

func TestBureauGetOneMissing(t *testing.T) {
	f := newBureauFixture(t)

	_, err := f.svc.GetOne(context.Background(), principalFor(f.admin), 404)
	assert.ErrorIs(t, err, ErrBureauNotFound)
}
