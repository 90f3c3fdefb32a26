// Package checkpoint moves adapter snapshots through a pluggable transport.
// Callers depend on the Transport contract; only this package wires the
// concrete drivers under internal/infra/checkpoint.
package checkpoint

import "adaptercore/internal/checkpoint/core"

type (
	// Driver identifies a checkpoint transport.
	Driver = core.Driver
	// Info describes a stored checkpoint.
	Info = core.Info
	// Transport is the contract every driver implements.
	Transport = core.Transport
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
	DriverSQLite     = core.DriverSQLite
	DriverPostgres   = core.DriverPostgres
)

var (
	// ErrNotFound reports a missing checkpoint.
	ErrNotFound = core.ErrNotFound
	// ErrInvalidKey reports a key that cannot address a checkpoint.
	ErrInvalidKey = core.ErrInvalidKey
)
