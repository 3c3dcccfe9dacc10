package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy names.
const (
	StrategyDeduction  = "deduction"
	StrategyWeighted   = "weighted"
	StrategyPrintReady = "print-ready"
)

// ErrUnknownStrategy is returned by StrategyByName for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown scoring strategy")

// Strategies returns the strategy names in a stable order.
func Strategies() []string {
	return []string{StrategyDeduction, StrategyWeighted, StrategyPrintReady}
}

// StrategyByName returns the scorer registered under name. An empty name
// selects the deduction model.
func StrategyByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyDeduction:
		return NewDeductionStrategy(), nil
	case StrategyWeighted:
		return NewWeightedFactorStrategy(), nil
	case StrategyPrintReady, "printready":
		return NewPrintReadyStrategy(), nil
	default:
		return nil, fmt.Errorf("%w %q: valid values are %s", ErrUnknownStrategy, name, strings.Join(Strategies(), ", "))
	}
}
