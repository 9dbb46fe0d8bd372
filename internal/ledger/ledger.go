// Package ledger implements the cash-register and account-ledger arithmetic:
// it normalizes the heterogeneous transaction sources of a session (ventas,
// pagos de cliente y proveedor, compras, gastos) into one typed feed, folds
// running balances, reconciles the till at close, derives customer/supplier
// account ledgers, and converts amounts between display currencies.
//
// Every function here is a pure transformation over its inputs; persistence
// and I/O belong to the service layer. All amounts are int64 minor units of
// the default currency. The only rounding in the package happens once, at
// the end of a currency conversion.
package ledger

import "errors"

// Deterministic validation failures. None of these are retryable: they
// signal a lifecycle violation, corrupt source data, or a bad request.
var (
	// ErrEstadoInvalido: the session is not in the state the operation
	// requires (e.g. closing an already-closed session).
	ErrEstadoInvalido = errors.New("estado de sesión inválido para la operación")

	// ErrIntegridadDatos: a source record references a session or entity
	// other than the one requested. Never dropped silently.
	ErrIntegridadDatos = errors.New("registro no pertenece a la sesión o entidad solicitada")

	// ErrMonedaDesconocida: conversion requested for an unregistered
	// currency code.
	ErrMonedaDesconocida = errors.New("moneda no registrada")
)
