package persistence

import (
	"strings"

	"github.com/erp/cashledger/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyPaging adds a whitelisted ORDER BY plus LIMIT/OFFSET to query
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter = filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// RegisterSortFields contains allowed sort fields for registers
var RegisterSortFields = map[string]bool{
	"created_at":    true,
	"name":          true,
	"display_order": true,
}

// ShiftSortFields contains allowed sort fields for shifts
var ShiftSortFields = map[string]bool{
	"created_at": true,
	"opened_at":  true,
	"closed_at":  true,
	"status":     true,
}

// OperatorSortFields contains allowed sort fields for operators
var OperatorSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"role":       true,
	"status":     true,
}

// AdvanceSortFields contains allowed sort fields for salary advances
var AdvanceSortFields = map[string]bool{
	"created_at":    true,
	"amount":        true,
	"status":        true,
	"authorized_at": true,
}

// DiscrepancySortFields contains allowed sort fields for discrepancy history
var DiscrepancySortFields = map[string]bool{
	"closed_at":   true,
	"shift_date":  true,
	"discrepancy": true,
}
