// Package model defines database models for persistence layer.
package model

// All returns every model managed by auto-migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&BankMovementModel{},
		&QuoteModel{},
		&ReceivableModel{},
		&ReceivableInstallmentModel{},
		&PayableModel{},
		&ReconciliationPatternModel{},
		&PatternEventModel{},
	}
}
