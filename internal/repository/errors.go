package repository

import "errors"

var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrAlreadyPaid   = errors.New("order is already paid")
	ErrUpdateFailed  = errors.New("update failed")
)
