package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/workzen/hr-service/internal/repository"
)

// maxAllocateRetries bounds the collision retry loop; with a 4-digit
// serial the count-derived candidate only collides when two approvals
// race, so a handful of retries is plenty.
const maxAllocateRetries = 5

// EmployeeIDAllocator mints business identifiers of the form
// <company code><year><4-digit serial>, e.g. WZ20260042. The serial is
// derived from a live count of same-year hires, not a persisted
// counter, so deleting employee rows changes future serials; strict
// monotonicity is a documented non-goal.
type EmployeeIDAllocator struct {
	repo        repository.EmployeeRepository
	companyCode string
	now         func() time.Time
}

func NewEmployeeIDAllocator(repo repository.EmployeeRepository, companyCode string) *EmployeeIDAllocator {
	return &EmployeeIDAllocator{
		repo:        repo,
		companyCode: strings.ToUpper(strings.TrimSpace(companyCode)),
		now:         time.Now,
	}
}

// Allocate composes the candidate id and re-checks uniqueness against
// the employees table; on collision it recomputes with a bumped
// serial. Two concurrent approvals can still race between check and
// insert, which the unique index on employee_id turns into an insert
// failure rather than a duplicate id.
func (a *EmployeeIDAllocator) Allocate() (string, error) {
	if len(a.companyCode) != 2 {
		return "", errors.New("company code must be two letters")
	}

	year := a.now().Year()
	count, err := a.repo.CountByJoiningYear(year)
	if err != nil {
		return "", fmt.Errorf("employee id allocation failed: %w", err)
	}

	serial := count + 1
	for i := 0; i < maxAllocateRetries; i++ {
		candidate := fmt.Sprintf("%s%d%04d", a.companyCode, year, serial)
		taken, err := a.repo.ExistsEmployeeID(candidate)
		if err != nil {
			return "", fmt.Errorf("employee id allocation failed: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		serial++
	}
	return "", errors.New("employee id allocation failed: exhausted retries")
}
