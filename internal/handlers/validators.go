package handlers

import (
	"strings"
	"sync"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs.
// Safe to call more than once.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return domain.PaymentMethod(fl.Field().String()).IsValid()
		})
		// tx_status accepts a comma separated list of statuses, case-insensitive.
		_ = v.RegisterValidation("tx_status", func(fl validator.FieldLevel) bool {
			for _, s := range strings.Split(fl.Field().String(), ",") {
				s = strings.TrimSpace(s)
				if s != "" && !domain.TransactionStatus(strings.ToUpper(s)).IsValid() {
					return false
				}
			}
			return true
		})
	})
}
