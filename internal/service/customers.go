// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Ash-crypto/cms-go/internal/store"
)

// CustomerService implements customer record management.
type CustomerService struct {
	queries *store.Queries
	events  *EventService
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(db *sql.DB) *CustomerService {
	return &CustomerService{
		queries: store.New(db),
		events:  NewEventService(db),
	}
}

// ParseSalary converts a form salary string into a nullable value.
// An empty string means "no salary recorded", which is distinct from zero.
func ParseSalary(s string) (sql.NullFloat64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, ErrInvalidSalary
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return sql.NullFloat64{}, ErrInvalidSalary
	}

	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

// CreateCustomerParams holds the input for creating a customer.
// Salary is the raw form string; it is parsed and validated here.
type CreateCustomerParams struct {
	Name    string
	Address string
	Email   string
	Phone   string
	Job     string
	Salary  string
}

// Create validates the input and inserts a new customer.
func (s *CustomerService) Create(ctx context.Context, actorID *int64, p CreateCustomerParams) (store.Customer, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return store.Customer{}, ErrMissingName
	}

	salary, err := ParseSalary(p.Salary)
	if err != nil {
		return store.Customer{}, err
	}

	now := time.Now()
	customer, err := s.queries.CreateCustomer(ctx, store.CreateCustomerParams{
		Name:      name,
		Address:   strings.TrimSpace(p.Address),
		Email:     strings.TrimSpace(p.Email),
		Phone:     strings.TrimSpace(p.Phone),
		Job:       strings.TrimSpace(p.Job),
		Salary:    salary,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.Customer{}, fmt.Errorf("creating customer: %w", err)
	}

	_ = s.events.LogCustomerEvent(ctx, store.EventLevelInfo, "customer created", actorID,
		map[string]any{"customer_id": customer.ID, "name": customer.Name})

	return customer, nil
}

// CustomerPatch describes a partial update. Nil fields are left unchanged;
// a non-nil field overwrites the stored value, including with an empty
// string. A non-nil empty Salary clears the stored salary.
type CustomerPatch struct {
	Name    *string
	Address *string
	Email   *string
	Phone   *string
	Job     *string
	Salary  *string
}

// Update applies a partial update to a customer. All fields are validated
// before anything is written, so an invalid salary leaves the record
// untouched.
func (s *CustomerService) Update(ctx context.Context, actorID *int64, id int64, patch CustomerPatch) (store.Customer, error) {
	existing, err := s.queries.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Customer{}, ErrNotFound
		}
		return store.Customer{}, fmt.Errorf("loading customer: %w", err)
	}

	params := store.UpdateCustomerParams{
		Name:      existing.Name,
		Address:   existing.Address,
		Email:     existing.Email,
		Phone:     existing.Phone,
		Job:       existing.Job,
		Salary:    existing.Salary,
		UpdatedAt: time.Now(),
		ID:        id,
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return store.Customer{}, ErrMissingName
		}
		params.Name = name
	}
	if patch.Address != nil {
		params.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.Email != nil {
		params.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Phone != nil {
		params.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Job != nil {
		params.Job = strings.TrimSpace(*patch.Job)
	}
	if patch.Salary != nil {
		salary, err := ParseSalary(*patch.Salary)
		if err != nil {
			return store.Customer{}, err
		}
		params.Salary = salary
	}

	customer, err := s.queries.UpdateCustomer(ctx, params)
	if err != nil {
		return store.Customer{}, fmt.Errorf("updating customer: %w", err)
	}

	_ = s.events.LogCustomerEvent(ctx, store.EventLevelInfo, "customer updated", actorID,
		map[string]any{"customer_id": customer.ID})

	return customer, nil
}

// Get returns a single customer by id.
func (s *CustomerService) Get(ctx context.Context, id int64) (store.Customer, error) {
	customer, err := s.queries.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Customer{}, ErrNotFound
		}
		return store.Customer{}, fmt.Errorf("loading customer: %w", err)
	}
	return customer, nil
}

// List returns all customers, newest first.
func (s *CustomerService) List(ctx context.Context) ([]store.Customer, error) {
	return s.queries.ListCustomers(ctx)
}

// Count returns the number of customers on record.
func (s *CustomerService) Count(ctx context.Context) (int64, error) {
	return s.queries.CountCustomers(ctx)
}

// Delete removes a customer. Returns ErrNotFound if the id does not exist.
func (s *CustomerService) Delete(ctx context.Context, actorID *int64, id int64) error {
	affected, err := s.queries.DeleteCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	_ = s.events.LogCustomerEvent(ctx, store.EventLevelWarning, "customer deleted", actorID,
		map[string]any{"customer_id": id})

	return nil
}
