package interfaces

import (
	"context"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

// Definimos o erro aqui para que o usecase possa referenciá-lo facilmente
var ErrRuleExecutionFailed = domain.ErrRuleExecutionFailed

// RulePackLoader define o contrato para carregar os RulePacks (de disco, rede, etc.).
type RulePackLoader interface {
	Load(ctx context.Context, version string) (*domain.RulePackDefinition, error)
}

// RuleExecutor define o contrato para executar uma regra JsonLogic com operadores customizados.
type RuleExecutor interface {
	Execute(ctx context.Context, ruleData map[string]interface{}, contextVars map[string]interface{}) (interface{}, error)
	RegisterCustomOperator(name string, logic func(args ...interface{}) interface{})
}

// Backend is the collaborator that owns cart and coupon persistence. Every
// call is fallible; implementations wrap transport failures so that
// errors.Is(err, domain.ErrRemoteUnavailable) holds.
type Backend interface {
	FetchCart(ctx context.Context) (domain.CartSnapshot, error)
	PersistLineAdd(ctx context.Context, line domain.CartLine) (domain.CartLine, error)
	PersistLineUpdate(ctx context.Context, lineID string, quantity int) error
	PersistLineRemove(ctx context.Context, lineID string) error
	PersistCouponApply(ctx context.Context, code string) (domain.Coupon, error)
	PersistCouponRemove(ctx context.Context) error
	FetchAvailableCoupons(ctx context.Context) ([]domain.Coupon, error)
	ValidateCouponRemotely(ctx context.Context, code string, orderValue domain.Money) (domain.RemoteCouponValidation, error)
}

// PricingFacade é a porta de entrada da aplicação para cotações sem estado.
type PricingFacade interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
}

// TraceObserver receives the trace of a finished computation.
type TraceObserver interface {
	Observe(ctx context.Context, operation string, trace domain.Trace)
}
