package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/workzen/hr-service/internal/domain"
)

// In-memory repository doubles for service tests. They mimic the gorm
// repositories closely enough to exercise the service logic, including
// gorm.ErrRecordNotFound on misses.

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return user, nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindUserById(userID uint) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindUserByResetToken(token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetToken == token && token != "" {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) SaveUser(user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ListUsers(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) CountActiveAdmins() (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == domain.RoleAdmin && u.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeEmployeeRepo struct {
	employees map[uint]*domain.Employee
	nextID    uint
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[uint]*domain.Employee{}, nextID: 1}
}

func (r *fakeEmployeeRepo) Create(emp *domain.Employee) error {
	emp.ID = r.nextID
	r.nextID++
	cp := *emp
	r.employees[emp.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) FindByID(id uint) (*domain.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmployeeRepo) FindByEmployeeID(employeeID string) (*domain.Employee, error) {
	for _, e := range r.employees {
		if e.EmployeeID == employeeID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEmployeeRepo) Save(emp *domain.Employee) error {
	if _, ok := r.employees[emp.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *emp
	r.employees[emp.ID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) List(limit, offset int) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, e := range r.employees {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) CountByJoiningYear(year int) (int64, error) {
	var n int64
	for _, e := range r.employees {
		if e.JoiningDate.Year() == year {
			n++
		}
	}
	return n, nil
}

func (r *fakeEmployeeRepo) ExistsEmployeeID(employeeID string) (bool, error) {
	for _, e := range r.employees {
		if e.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeOnboardingRepo struct {
	requests   map[uint]*domain.OnboardingRequest
	users      *fakeUserRepo
	emps       *fakeEmployeeRepo
	nextID     uint
	approveErr error
}

func newFakeOnboardingRepo(users *fakeUserRepo, emps *fakeEmployeeRepo) *fakeOnboardingRepo {
	return &fakeOnboardingRepo{
		requests: map[uint]*domain.OnboardingRequest{},
		users:    users,
		emps:     emps,
		nextID:   1,
	}
}

func (r *fakeOnboardingRepo) Create(req *domain.OnboardingRequest) error {
	req.ID = r.nextID
	r.nextID++
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeOnboardingRepo) FindByToken(token string) (*domain.OnboardingRequest, error) {
	for _, req := range r.requests {
		if req.Token == token {
			cp := *req
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOnboardingRepo) FindByID(id uint) (*domain.OnboardingRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeOnboardingRepo) Save(req *domain.OnboardingRequest) error {
	if _, ok := r.requests[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeOnboardingRepo) ListByStatus(status domain.OnboardingStatus, limit, offset int) ([]domain.OnboardingRequest, error) {
	var out []domain.OnboardingRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeOnboardingRepo) ExistsOtherWithPAN(pan string, excludeID uint) (bool, error) {
	for _, req := range r.requests {
		if req.ID != excludeID && req.PAN == pan && pan != "" {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOnboardingRepo) ExistsOtherWithAadhaar(aadhaar string, excludeID uint) (bool, error) {
	for _, req := range r.requests {
		if req.ID != excludeID && req.Aadhaar == aadhaar && aadhaar != "" {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOnboardingRepo) Approve(req *domain.OnboardingRequest, user *domain.User, emp *domain.Employee) error {
	if r.approveErr != nil {
		return r.approveErr
	}
	if _, err := r.users.CreateUser(user); err != nil {
		return err
	}
	emp.UserID = &user.ID
	if err := r.emps.Create(emp); err != nil {
		return err
	}
	req.EmployeeRecordID = &emp.ID
	return r.Save(req)
}

type fakeOTPRepo struct {
	records []*domain.EmailOTP
	nextID  uint
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{nextID: 1}
}

func (r *fakeOTPRepo) Create(otp *domain.EmailOTP) error {
	otp.ID = r.nextID
	r.nextID++
	otp.CreatedAt = time.Now()
	cp := *otp
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeOTPRepo) FindLatestUsable(email string, now time.Time) (*domain.EmailOTP, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if rec.Email == email && !rec.Used && rec.ExpiresAt.After(now) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOTPRepo) InvalidateAll(email string) error {
	for _, rec := range r.records {
		if rec.Email == email && !rec.Used {
			rec.Used = true
		}
	}
	return nil
}

func (r *fakeOTPRepo) Save(otp *domain.EmailOTP) error {
	for i, rec := range r.records {
		if rec.ID == otp.ID {
			cp := *otp
			r.records[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeAuditRepo struct {
	entries []domain.AuditLog
}

func (r *fakeAuditRepo) Append(entry *domain.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByActor(email string, limit, offset int) ([]domain.AuditLog, error) {
	var out []domain.AuditLog
	for _, e := range r.entries {
		if e.ActorEmail == email {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) actions() []string {
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeRoleRepo struct{}

func (r *fakeRoleRepo) FindByCode(code string) (*domain.Role, error) {
	for _, c := range []string{
		domain.RoleAdmin, domain.RoleHROfficer, domain.RoleManager,
		domain.RoleEmployee, domain.RoleContractor,
	} {
		if c == code {
			return &domain.Role{Code: c, Name: c}, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) List(limit, offset int) ([]domain.Role, error) {
	return nil, nil
}

type publishedEvent struct {
	Key   string
	Value string
}

type fakeProducer struct {
	events []publishedEvent
	fail   bool
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	if p.fail {
		return fmt.Errorf("broker unavailable")
	}
	p.events = append(p.events, publishedEvent{Key: string(key), Value: string(value)})
	return nil
}

func (p *fakeProducer) keys() []string {
	var out []string
	for _, e := range p.events {
		out = append(out, e.Key)
	}
	return out
}

type fakeUploader struct {
	uploads int
}

func (u *fakeUploader) UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error) {
	u.uploads++
	return fmt.Sprintf("https://cdn.test/%s/%s.jpg", folder, filename), nil
}

type fakeExtractor struct {
	text string
}

func (e *fakeExtractor) ExtractText(ctx context.Context, imageURI string) (string, error) {
	return e.text, nil
}
