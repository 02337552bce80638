package service

import (
	"context"
	"sync"
	"time"

	"github.com/kadankyi1/amforex/internal/config"
	"github.com/kadankyi1/amforex/internal/hashing"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/repository/postgres"
	"github.com/kadankyi1/amforex/internal/scope"
)

type fakeAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Administrator
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byID: make(map[int64]*models.Administrator)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, a *models.Administrator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.AdminID = r.nextID
	a.CreatedAt = time.Now()
	copied := *a
	r.byID[a.AdminID] = &copied
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id int64) (*models.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAdminRepo) GetByPhoneNumber(ctx context.Context, phone string) (*models.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.PhoneNumber == phone {
			copied := *a
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeAdminRepo) PhoneInUse(ctx context.Context, phone string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.PhoneNumber == phone && a.AdminID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAdminRepo) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email && a.AdminID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAdminRepo) List(ctx context.Context, limit, offset int) ([]*models.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Administrator
	for id := r.nextID; id >= 1; id-- {
		if a, ok := r.byID[id]; ok {
			copied := *a
			out = append(out, &copied)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAdminRepo) Update(ctx context.Context, a *models.Administrator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.AdminID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *a
	r.byID[a.AdminID] = &copied
	return nil
}

func (r *fakeAdminRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return postgres.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

type fakePasscodeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*models.Passcode
}

func (r *fakePasscodeRepo) Create(ctx context.Context, p *models.Passcode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.PasscodeID = r.nextID
	p.CreatedAt = time.Now()
	copied := *p
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *fakePasscodeRepo) LatestUnused(ctx context.Context, userType string, userID int64) (*models.Passcode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		p := r.rows[i]
		if p.UserType == userType && p.UserID == userID && !p.Used {
			copied := *p
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakePasscodeRepo) LatestUnusedMatching(ctx context.Context, userType string, userID int64, code string) (*models.Passcode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		p := r.rows[i]
		if p.UserType == userType && p.UserID == userID && p.Code == code && !p.Used {
			copied := *p
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakePasscodeRepo) MarkUsed(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.PasscodeID == id {
			p.Used = true
			return nil
		}
	}
	return postgres.ErrNotFound
}

type fakeCurrencyRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Currency
}

func newFakeCurrencyRepo() *fakeCurrencyRepo {
	return &fakeCurrencyRepo{byID: make(map[int64]*models.Currency)}
}

func (r *fakeCurrencyRepo) Create(ctx context.Context, c *models.Currency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.CurrencyID = r.nextID
	c.CreatedAt = time.Now()
	copied := *c
	r.byID[c.CurrencyID] = &copied
	return nil
}

func (r *fakeCurrencyRepo) GetByID(ctx context.Context, id int64) (*models.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCurrencyRepo) GetByAbbreviation(ctx context.Context, abbr string) (*models.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Abbreviation == abbr {
			copied := *c
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeCurrencyRepo) ExistsByAbbreviation(ctx context.Context, abbr string) (bool, error) {
	_, err := r.GetByAbbreviation(ctx, abbr)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeCurrencyRepo) List(ctx context.Context) ([]*models.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Currency
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.byID[id]; ok {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCurrencyRepo) Search(ctx context.Context, keyword string) ([]*models.Currency, error) {
	return r.List(ctx)
}

func (r *fakeCurrencyRepo) Update(ctx context.Context, c *models.Currency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.CurrencyID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *c
	r.byID[c.CurrencyID] = &copied
	return nil
}

type fakeIssuer struct {
	mu     sync.Mutex
	issued int
}

func (f *fakeIssuer) Issue(userType string, userID int64, scopes scope.Set) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	return "token-" + userType, nil
}

type fakeRevoker struct {
	mu          sync.Mutex
	revokedJTIs []string
	revokedAll  []int64
}

func (f *fakeRevoker) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revokedJTIs = append(f.revokedJTIs, jti)
	return nil
}

func (f *fakeRevoker) RevokeAll(ctx context.Context, userType string, userID int64, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

type auditCall struct {
	ActorType, ActorID, Category, Message string
}

type fakeAuditor struct {
	mu    sync.Mutex
	calls []auditCall
}

func (f *fakeAuditor) Record(ctx context.Context, actorType, actorID, category, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, auditCall{actorType, actorID, category, message})
}

func (f *fakeAuditor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type sentMail struct {
	To, Name, Code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendPasscode(to, name, code string, issuedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, name, code})
	return nil
}

func testHasher() *hashing.Hasher {
	return hashing.NewHasher(&config.Config{})
}

func newTestGuard(admins AdminRepository, revoker TokenRevoker, auditor Auditor) Guard {
	return Guard{
		admins:  admins,
		tokens:  revoker,
		hasher:  testHasher(),
		auditor: auditor,
	}
}

type fakeBureauRepo struct {
	mu           sync.Mutex
	nextBureauID int64
	nextBranchID int64
	bureaus      map[int64]*models.Bureau
	branches     map[int64]*models.Branch
}

func newFakeBureauRepo() *fakeBureauRepo {
	return &fakeBureauRepo{
		bureaus:  make(map[int64]*models.Bureau),
		branches: make(map[int64]*models.Branch),
	}
}

func (r *fakeBureauRepo) Create(ctx context.Context, b *models.Bureau) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextBureauID++
	b.BureauID = r.nextBureauID
	b.CreatedAt = time.Now()
	copied := *b
	r.bureaus[b.BureauID] = &copied
	return nil
}

func (r *fakeBureauRepo) GetByID(ctx context.Context, id int64) (*models.Bureau, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bureaus[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBureauRepo) GetByTIN(ctx context.Context, tin string) (*models.Bureau, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bureaus {
		if b.TIN == tin {
			copied := *b
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeBureauRepo) Update(ctx context.Context, b *models.Bureau) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bureaus[b.BureauID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *b
	r.bureaus[b.BureauID] = &copied
	return nil
}

func (r *fakeBureauRepo) List(ctx context.Context, limit, offset int) ([]*models.Bureau, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bureau
	for id := r.nextBureauID; id >= 1; id-- {
		if b, ok := r.bureaus[id]; ok {
			copied := *b
			out = append(out, &copied)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBureauRepo) Search(ctx context.Context, keyword string) ([]*models.Bureau, error) {
	return r.List(ctx, 50, 0)
}

func (r *fakeBureauRepo) CountBranches(ctx context.Context, bureauID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, b := range r.branches {
		if b.BureauID == bureauID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBureauRepo) CreateBranch(ctx context.Context, b *models.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextBranchID++
	b.BranchID = r.nextBranchID
	b.CreatedAt = time.Now()
	copied := *b
	r.branches[b.BranchID] = &copied
	return nil
}

func (r *fakeBureauRepo) GetBranchByExtID(ctx context.Context, extID string) (*models.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.branches {
		if b.ExtID == extID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeBureauRepo) UpdateBranch(ctx context.Context, b *models.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[b.BranchID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *b
	r.branches[b.BranchID] = &copied
	return nil
}

type fakeWorkerRepo struct {
	mu      sync.Mutex
	nextID  int64
	workers map[int64]*models.Worker
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{workers: make(map[int64]*models.Worker)}
}

func (r *fakeWorkerRepo) Create(ctx context.Context, w *models.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	w.WorkerID = r.nextID
	w.CreatedAt = time.Now()
	copied := *w
	r.workers[w.WorkerID] = &copied
	return nil
}

func (r *fakeWorkerRepo) GetByExtID(ctx context.Context, extID string) (*models.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.workers {
		if w.ExtID == extID {
			copied := *w
			return &copied, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeWorkerRepo) Update(ctx context.Context, w *models.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workers[w.WorkerID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *w
	r.workers[w.WorkerID] = &copied
	return nil
}
