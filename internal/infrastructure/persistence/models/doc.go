// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, BranchAggregateModel)
// - operator.go: Identity context model (Operator)
// - cashier.go: Ledger models (CashRegister, Shift, Movement, DiscrepancyRecord)
// - payroll.go: Salary advance model
// - outbox.go: Outbox pattern model for event delivery
//
// The partial unique indexes declared in the tags are the store-level
// guarantees the ledger depends on: one open shift per register, one active
// holder per PIN digest in a branch, one movement per salary advance.
// migrations/ declares the same indexes for PostgreSQL.
package models
