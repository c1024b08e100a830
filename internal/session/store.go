// Package session holds the datasets the dashboard is currently working with.
package session

import (
	"commute-route-service/internal/domain"
	"sync"
)

// Store owns the live employee and commute datasets. An upload replaces the
// dataset of its kind wholesale; readers always see a complete snapshot.
type Store struct {
	mu        sync.RWMutex
	employees *domain.EmployeeDataset
	commutes  *domain.CommuteDataset
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetEmployees(ds *domain.EmployeeDataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = ds
}

func (s *Store) SetCommutes(ds *domain.CommuteDataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commutes = ds
}

// Employees returns the current employee dataset, or nil if none was uploaded.
func (s *Store) Employees() *domain.EmployeeDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employees
}

// Commutes returns the current commute dataset, or nil if none was uploaded.
func (s *Store) Commutes() *domain.CommuteDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commutes
}
