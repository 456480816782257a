package medicine

import "context"

type Repository interface {
	Create(ctx context.Context, m *Medicine) error

	// GetByKey returns ErrNotFound when absent.
	GetByKey(ctx context.Context, medicineKey string) (*Medicine, error)

	// ListByPatient applies the query's filter and sort.
	ListByPatient(ctx context.Context, patientKey string, q *ListMedicinesQuery) ([]*Medicine, error)

	// Delete removes the medicine and cascades its schedules.
	Delete(ctx context.Context, medicineKey string) error

	// DecrementQuantity subtracts n from the stock with a floor of zero,
	// locking the row, and returns the new quantity.
	DecrementQuantity(ctx context.Context, medicineKey string, n int) (int, error)
}
