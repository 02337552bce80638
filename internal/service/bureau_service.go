package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/audit"
	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/repository/postgres"
	"github.com/kadankyi1/amforex/internal/scope"
	"github.com/kadankyi1/amforex/internal/util"
)

const bureausPageSize = 50

// hqBranchName is the branch created alongside every new bureau.
const hqBranchName = "Head Office"

type BureauAddRequest struct {
	Name            string `json:"bureau_name"`
	HQGPSAddress    string `json:"bureau_hq_gps_address"`
	HQLocation      string `json:"bureau_hq_location"`
	TIN             string `json:"bureau_tin"`
	LicenseNo       string `json:"bureau_license_no"`
	RegistrationNum string `json:"bureau_registration_num"`
	Phone1          string `json:"bureau_phone_1"`
	Phone2          string `json:"bureau_phone_2"`
	Email1          string `json:"bureau_email_1"`
	Email2          string `json:"bureau_email_2"`

	WorkerSurname    string `json:"worker_surname"`
	WorkerFirstname  string `json:"worker_firstname"`
	WorkerOthernames string `json:"worker_othernames"`
	WorkerPhone      string `json:"worker_phone_number"`
	WorkerEmail      string `json:"worker_email"`
	WorkerPosition   string `json:"worker_position"`

	PIN string `json:"pin"`
}

// BureauAddResult reports which of the three records the compound upsert
// created versus refreshed.
type BureauAddResult struct {
	Bureau        *models.Bureau
	BureauUpdated bool
	Branch        *models.Branch
	Worker        *models.Worker
}

type BureauService struct {
	Guard
	bureaus BureauRepository
	workers WorkerRepository
}

func NewBureauService(g Guard, bureaus BureauRepository, workers WorkerRepository) *BureauService {
	return &BureauService{Guard: g, bureaus: bureaus, workers: workers}
}

// Add upserts a bureau by TIN together with its head-office branch and its
// first worker account. The worker's initial PIN is the last four digits of
// the TIN and the initial password is the TIN itself, both stored hashed.
func (s *BureauService) Add(ctx context.Context, p *auth.Principal, req BureauAddRequest) (*BureauAddResult, error) {
	if err := s.requireCapability(ctx, p, scope.AddBureau); err != nil {
		return nil, err
	}

	name := util.SanitizeInput(req.Name)
	tin := util.SanitizeInput(req.TIN)
	gps := util.SanitizeInput(req.HQGPSAddress)
	phone1 := util.SanitizeInput(req.Phone1)
	workerSurname := util.SanitizeInput(req.WorkerSurname)
	workerFirstname := util.SanitizeInput(req.WorkerFirstname)
	workerPhone := util.SanitizeInput(req.WorkerPhone)

	if name == "" {
		return nil, validationError("The bureau name field is required.")
	}
	if tin == "" {
		return nil, validationError("The bureau tin field is required.")
	}
	if len(tin) < 4 {
		return nil, validationError("The bureau tin must be at least 4 characters.")
	}
	if gps == "" {
		return nil, validationError("The bureau hq gps address field is required.")
	}
	if phone1 == "" {
		return nil, validationError("The bureau phone 1 field is required.")
	}
	if workerSurname == "" {
		return nil, validationError("The worker surname field is required.")
	}
	if workerFirstname == "" {
		return nil, validationError("The worker firstname field is required.")
	}
	if workerPhone == "" {
		return nil, validationError("The worker phone number field is required.")
	}

	admin, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.requirePIN(ctx, p, admin, req.PIN); err != nil {
		return nil, err
	}

	result := &BureauAddResult{}

	bureau, err := s.bureaus.GetByTIN(ctx, tin)
	switch {
	case err == nil:
		bureau.Name = name
		bureau.HQGPSAddress = gps
		bureau.HQLocation = util.SanitizeInput(req.HQLocation)
		bureau.LicenseNo = util.SanitizeInput(req.LicenseNo)
		bureau.RegistrationNum = util.SanitizeInput(req.RegistrationNum)
		bureau.Phone1 = phone1
		bureau.Phone2 = util.SanitizeInput(req.Phone2)
		bureau.Email1 = util.SanitizeInput(req.Email1)
		bureau.Email2 = util.SanitizeInput(req.Email2)
		if err := s.bureaus.Update(ctx, bureau); err != nil {
			return nil, err
		}
		result.BureauUpdated = true
	case errors.Is(err, postgres.ErrNotFound):
		bureau = &models.Bureau{
			Name:            name,
			HQGPSAddress:    gps,
			HQLocation:      util.SanitizeInput(req.HQLocation),
			TIN:             tin,
			LicenseNo:       util.SanitizeInput(req.LicenseNo),
			RegistrationNum: util.SanitizeInput(req.RegistrationNum),
			Phone1:          phone1,
			Phone2:          util.SanitizeInput(req.Phone2),
			Email1:          util.SanitizeInput(req.Email1),
			Email2:          util.SanitizeInput(req.Email2),
			CreatorAdminID:  admin.AdminID,
		}
		if err := s.bureaus.Create(ctx, bureau); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	result.Bureau = bureau

	branchExtID := gps + tin + phone1
	branch, err := s.bureaus.GetBranchByExtID(ctx, branchExtID)
	switch {
	case err == nil:
		branch.Name = hqBranchName
		branch.GPSAddress = gps
		branch.Location = bureau.HQLocation
		branch.Phone1 = phone1
		branch.Phone2 = bureau.Phone2
		branch.Email1 = bureau.Email1
		branch.Email2 = bureau.Email2
		if err := s.bureaus.UpdateBranch(ctx, branch); err != nil {
			return nil, err
		}
	case errors.Is(err, postgres.ErrNotFound):
		branch = &models.Branch{
			ExtID:           branchExtID,
			Name:            hqBranchName,
			GPSAddress:      gps,
			Location:        bureau.HQLocation,
			Phone1:          phone1,
			Phone2:          bureau.Phone2,
			Email1:          bureau.Email1,
			Email2:          bureau.Email2,
			CreatorUserType: p.UserType,
			CreatorID:       admin.AdminID,
			IsHQ:            true,
			BureauID:        bureau.BureauID,
		}
		if err := s.bureaus.CreateBranch(ctx, branch); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	result.Branch = branch

	workerExtID := fmt.Sprintf("%d-%d-%s", bureau.BureauID, branch.BranchID, workerPhone)
	worker, err := s.workers.GetByExtID(ctx, workerExtID)
	switch {
	case err == nil:
		worker.Surname = workerSurname
		worker.Firstname = workerFirstname
		worker.Othernames = util.SanitizeInput(req.WorkerOthernames)
		worker.PhoneNumber = workerPhone
		worker.Email = util.SanitizeInput(req.WorkerEmail)
		worker.Position = util.SanitizeInput(req.WorkerPosition)
		if err := s.workers.Update(ctx, worker); err != nil {
			return nil, err
		}
	case errors.Is(err, postgres.ErrNotFound):
		pinHash, err := s.hasher.HashPIN(lastN(tin, 4))
		if err != nil {
			return nil, err
		}
		passwordHash, err := s.hasher.HashPassword(tin)
		if err != nil {
			return nil, err
		}
		worker = &models.Worker{
			ExtID:           workerExtID,
			Surname:         workerSurname,
			Firstname:       workerFirstname,
			Othernames:      util.SanitizeInput(req.WorkerOthernames),
			Position:        util.SanitizeInput(req.WorkerPosition),
			Scope:           scope.WorkerDefault().String(),
			WasFirst:        true,
			PhoneNumber:     workerPhone,
			Email:           util.SanitizeInput(req.WorkerEmail),
			PINHash:         pinHash,
			PasswordHash:    passwordHash,
			CreatorUserType: p.UserType,
			CreatorID:       admin.AdminID,
			BranchID:        branch.BranchID,
			BureauID:        bureau.BureauID,
		}
		if err := s.workers.Create(ctx, worker); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	result.Worker = worker

	action := "Added"
	if result.BureauUpdated {
		action = "Updated"
	}
	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryBureaus,
		fmt.Sprintf("%s bureau %s (TIN %s)", action, bureau.Name, bureau.TIN))
	return result, nil
}

func (s *BureauService) List(ctx context.Context, p *auth.Principal, page int) ([]*models.Bureau, error) {
	if err := s.requireCapability(ctx, p, scope.ViewBureaus); err != nil {
		return nil, err
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	return s.bureaus.List(ctx, bureausPageSize, (page-1)*bureausPageSize)
}

func (s *BureauService) Search(ctx context.Context, p *auth.Principal, keyword string) ([]*models.Bureau, error) {
	if err := s.requireCapability(ctx, p, scope.ViewBureaus); err != nil {
		return nil, err
	}
	keyword = util.SanitizeInput(keyword)
	if keyword == "" {
		return nil, validationError("The keyword field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}
	return s.bureaus.Search(ctx, keyword)
}

func (s *BureauService) GetOne(ctx context.Context, p *auth.Principal, bureauID int64) (*models.Bureau, error) {
	if err := s.requireCapability(ctx, p, scope.GetOneBureau); err != nil {
		return nil, err
	}
	if bureauID <= 0 {
		return nil, validationError("The bureau id field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}

	bureau, err := s.bureaus.GetByID(ctx, bureauID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrBureauNotFound
		}
		return nil, err
	}
	count, err := s.bureaus.CountBranches(ctx, bureau.BureauID)
	if err != nil {
		return nil, err
	}
	bureau.NumBranches = count
	return bureau, nil
}

// lastN returns the trailing n characters of s.
func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
