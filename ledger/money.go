package ledger

import "errors"

// Money is an amount in whole rupiah. No floating point anywhere in the
// money path: display formatting is a client concern.
type Money int64

var ErrInvalidAmount = errors.New("amount must be positive")

// ComputeTotal is the single place the rate × hours formula lives.
// Everything that derives a session total goes through here.
func ComputeTotal(rate Money, hours int) (Money, error) {
	if rate <= 0 || hours <= 0 {
		return 0, ErrInvalidAmount
	}
	return rate * Money(hours), nil
}

// LearningPackage mirrors the packages offered on the pricing page.
// Totals are always recomputed here from the package code; client-submitted
// totals are never trusted.
type LearningPackage struct {
	Code        string
	Sessions    int
	DiscountPct int
}

var learningPackages = []LearningPackage{
	{Code: "single", Sessions: 1, DiscountPct: 0},
	{Code: "weekly", Sessions: 4, DiscountPct: 5},
	{Code: "monthly", Sessions: 12, DiscountPct: 10},
	{Code: "semester", Sessions: 24, DiscountPct: 15},
}

func PackageByCode(code string) (LearningPackage, bool) {
	for _, p := range learningPackages {
		if p.Code == code {
			return p, true
		}
	}
	return LearningPackage{}, false
}

// Total prices a whole package: rate × hours per session × sessions, minus
// the package discount. Integer division truncates, so the discount never
// rounds up against the payer.
func (p LearningPackage) Total(rate Money, hours int) (Money, error) {
	perSession, err := ComputeTotal(rate, hours)
	if err != nil {
		return 0, err
	}
	base := perSession * Money(p.Sessions)
	discount := base * Money(p.DiscountPct) / 100
	return base - discount, nil
}
