package invoicing

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"go.uber.org/zap"
)

// rateEpsilon absorbs float noise when matching parsed rate strings
// against remote tax values.
const rateEpsilon = 0.001

// TaxLister is the single API operation the resolver needs.
type TaxLister interface {
	ListTaxes(ctx context.Context) ([]accounting.Tax, error)
}

// TaxResolver maps a tax rate percentage to the remote tax identifier.
// The remote tax table is fetched on first use and cached. One resolver
// is shared across concurrent requests, so the cache is mutex-guarded.
type TaxResolver struct {
	api    TaxLister
	logger *zap.Logger

	mu     sync.Mutex
	taxes  []accounting.Tax
	loaded bool
}

// NewTaxResolver creates a new tax resolver
func NewTaxResolver(api TaxLister, logger *zap.Logger) *TaxResolver {
	return &TaxResolver{api: api, logger: logger}
}

// Resolve returns the remote tax id registered for the given rate.
// A rate with no matching remote tax is a configuration problem, not a
// transient one: the operator has to register the tax remotely first.
func (r *TaxResolver) Resolve(ctx context.Context, ratePercent float64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		taxes, err := r.api.ListTaxes(ctx)
		if err != nil {
			return 0, fmt.Errorf("list taxes: %w", err)
		}
		r.taxes = taxes
		r.loaded = true
	}

	for _, tax := range r.taxes {
		if math.Abs(tax.Value-ratePercent) < rateEpsilon {
			return tax.TaxID, nil
		}
	}

	r.logger.Warn("No remote tax matches rate", zap.Float64("rate_percent", ratePercent))
	return 0, &ConfigurationError{
		Setting: "taxes",
		Reason:  fmt.Sprintf("no remote tax registered for rate %.3f%%", ratePercent),
	}
}

// ParseRate extracts the numeric rate from a stored tax percentage,
// stripping everything that is not a digit or decimal point ("23%" -> 23).
// Malformed values come back as 0 and are treated as "no tax".
func ParseRate(stored string) float64 {
	var b strings.Builder
	for _, ch := range stored {
		if (ch >= '0' && ch <= '9') || ch == '.' {
			b.WriteRune(ch)
		}
	}
	rate, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return rate
}
