package service

import "errors"

var (
	// ErrOffline indicates offline mode was asked for data it does not hold.
	ErrOffline = errors.New("offline")

	// ErrUnknownTreeKind indicates a tree kind with no schema.
	ErrUnknownTreeKind = errors.New("unknown tree kind")

	// ErrPackageIDRequired indicates a selection use case without a package.
	ErrPackageIDRequired = errors.New("package id is required")
)
