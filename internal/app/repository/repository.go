package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by every store when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (user email) is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInsufficientStock is returned by OrderRepository.Place when a line exceeds the product stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows a product listing. Zero values mean no restriction.
type ProductFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
