// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("plan_type", validatePlanType)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
		_ = v.RegisterValidation("trade_status", validateTradeStatus)
		_ = v.RegisterValidation("account_field", validateAccountField)
		_ = v.RegisterValidation("notification_type", validateNotificationType)
	}
}

func validatePlanType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Starter", "Pro", "Elite":
		return true
	}
	return false
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "deposit", "withdrawal":
		return true
	}
	return false
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "approved", "rejected", "cancelled":
		return true
	}
	return false
}

func validateTradeStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "completed", "cancelled", "failed":
		return true
	}
	return false
}

// account_field selects which ledger field a withdrawal debits.
func validateAccountField(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "balance", "profit":
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "deposit", "withdrawal", "login", "password-change", "trade", "activation", "general", "admin":
		return true
	}
	return false
}
