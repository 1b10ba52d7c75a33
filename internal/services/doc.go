// Package services holds the business logic behind the HTTP handlers.
//
// DataService answers dashboard queries from the CSV datasets the
// pipeline writes, OperationService starts and tracks pipeline runs,
// and HealthService reports liveness, readiness and system stats.
package services
