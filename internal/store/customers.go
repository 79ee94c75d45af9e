// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createCustomer = `
INSERT INTO customers (name, address, email, phone, job, salary, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, name, address, email, phone, job, salary, created_at, updated_at
`

// CreateCustomerParams holds the fields required to create a customer.
type CreateCustomerParams struct {
	Name      string
	Address   string
	Email     string
	Phone     string
	Job       string
	Salary    sql.NullFloat64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCustomer inserts a new customer and returns the stored row.
func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRowContext(ctx, createCustomer,
		arg.Name, arg.Address, arg.Email, arg.Phone, arg.Job, arg.Salary,
		arg.CreatedAt, arg.UpdatedAt)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.Job,
		&c.Salary, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const getCustomerByID = `
SELECT id, name, address, email, phone, job, salary, created_at, updated_at
FROM customers WHERE id = ?
`

// GetCustomerByID fetches a customer by primary key.
func (q *Queries) GetCustomerByID(ctx context.Context, id int64) (Customer, error) {
	row := q.db.QueryRowContext(ctx, getCustomerByID, id)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.Job,
		&c.Salary, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const listCustomers = `
SELECT id, name, address, email, phone, job, salary, created_at, updated_at
FROM customers ORDER BY id DESC
`

// ListCustomers returns all customers, newest first.
func (q *Queries) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.QueryContext(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.Job,
			&c.Salary, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

const countCustomers = `SELECT COUNT(*) FROM customers`

// CountCustomers returns the total number of customers.
func (q *Queries) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCustomers).Scan(&count)
	return count, err
}

const updateCustomer = `
UPDATE customers
SET name = ?, address = ?, email = ?, phone = ?, job = ?, salary = ?, updated_at = ?
WHERE id = ?
RETURNING id, name, address, email, phone, job, salary, created_at, updated_at
`

// UpdateCustomerParams holds the full column set written by an update.
type UpdateCustomerParams struct {
	Name      string
	Address   string
	Email     string
	Phone     string
	Job       string
	Salary    sql.NullFloat64
	UpdatedAt time.Time
	ID        int64
}

// UpdateCustomer overwrites all mutable columns of a customer row.
func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	row := q.db.QueryRowContext(ctx, updateCustomer,
		arg.Name, arg.Address, arg.Email, arg.Phone, arg.Job, arg.Salary,
		arg.UpdatedAt, arg.ID)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone, &c.Job,
		&c.Salary, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const deleteCustomer = `DELETE FROM customers WHERE id = ?`

// DeleteCustomer removes a customer row. Returns the number of rows deleted.
func (q *Queries) DeleteCustomer(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCustomer, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
