package core

import (
	"context"
	"fmt"
	"math"

	"zoocore/pkg/domain"
)

// Entrants counts visitors per admission category.
type Entrants struct {
	Adult  int `json:"Adult,omitempty"`
	Child  int `json:"Child,omitempty"`
	Senior int `json:"Senior,omitempty"`
}

// EntryCalculator prices a group visit at current prices. A nil group costs
// nothing. The total is not rounded.
func (s *Service) EntryCalculator(ctx context.Context, entrants *Entrants) (float64, error) {
	var total float64
	err := s.view(ctx, "entry_calculator", func(v domain.TransactionView) error {
		if entrants == nil || *entrants == (Entrants{}) {
			return nil
		}
		prices := v.Prices()
		adult, _ := prices.Get(domain.CategoryAdult)
		child, _ := prices.Get(domain.CategoryChild)
		senior, _ := prices.Get(domain.CategorySenior)
		total = float64(entrants.Adult)*adult + float64(entrants.Child)*child + float64(entrants.Senior)*senior
		return nil
	})
	return total, err
}

const closedDay = "Monday"

// Schedule renders opening hours per weekday. An empty day lists every day
// in dataset order. Monday always reads CLOSED.
func (s *Service) Schedule(ctx context.Context, day string) (domain.Ordered[string], error) {
	var out domain.Ordered[string]
	err := s.view(ctx, "schedule", func(v domain.TransactionView) error {
		hours := v.Hours()
		if day == "" {
			for name, h := range hours.All() {
				out.Set(name, renderHours(name, h))
			}
			return nil
		}
		if day == closedDay {
			out.Set(day, renderHours(day, domain.Hours{}))
			return nil
		}
		h, ok := hours.Get(day)
		if !ok {
			return domain.ErrNotFound{Entity: domain.EntityHours, By: "day", Value: day}
		}
		out.Set(day, renderHours(day, h))
		return nil
	})
	return out, err
}

// renderHours subtracts 12 from the closing hour unconditionally.
func renderHours(day string, h domain.Hours) string {
	if day == closedDay {
		return "CLOSED"
	}
	return fmt.Sprintf("Open from %dam until %dpm", h.Open, h.Close-12)
}

// IncreasePrices raises every price by percentage, rounding half up to cents.
func (s *Service) IncreasePrices(ctx context.Context, percentage float64) (domain.Ordered[float64], domain.Result, error) {
	var updated domain.Ordered[float64]
	res, err := s.transact(ctx, "increase_prices", func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdatePrices(func(prices *domain.Ordered[float64]) error {
			for category, price := range prices.All() {
				prices.Set(category, roundCents(price*(1+percentage/100)))
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
