package session

import (
	"commute-route-service/internal/domain"
	"sync"
	"testing"
	"time"
)

func TestStoreReplacesOnUpload(t *testing.T) {
	s := NewStore()
	if s.Employees() != nil || s.Commutes() != nil {
		t.Fatalf("new store must be empty")
	}

	first := domain.NewEmployeeDataset([]domain.EmployeeRecord{{EmployeeNumber: 1}}, time.Now())
	second := domain.NewEmployeeDataset([]domain.EmployeeRecord{{EmployeeNumber: 2}}, time.Now())

	s.SetEmployees(first)
	s.SetEmployees(second)

	got := s.Employees()
	if got != second {
		t.Fatalf("expected latest dataset")
	}
	if _, err := got.Lookup(1); err == nil {
		t.Fatalf("records from the replaced dataset must not be visible")
	}
	if s.Commutes() != nil {
		t.Fatalf("employee upload must not touch commutes")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.SetCommutes(domain.NewCommuteDataset([]domain.CommuteRecord{{EmployeeNumber: n}}, time.Now()))
		}(i)
		go func() {
			defer wg.Done()
			if ds := s.Commutes(); ds != nil && len(ds.Records) != 1 {
				t.Errorf("partial dataset observed: %d records", len(ds.Records))
			}
		}()
	}
	wg.Wait()

	if s.Commutes() == nil {
		t.Fatalf("expected a dataset after concurrent uploads")
	}
}
