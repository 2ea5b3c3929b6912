package catalog

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/Simplici0/planquote/internal/pricing"
)

// Selection identifies a device, a plan and the contract parameters to price them with.
type Selection struct {
	DeviceID          string               `json:"deviceId"`
	PlanID            string               `json:"planId"`
	JoinType          pricing.JoinType     `json:"joinType"`
	ContractType      pricing.ContractType `json:"contractType"`
	InstallmentMonths int                  `json:"installmentMonths"`
	BundleDiscount    bool                 `json:"bundleDiscount"`
}

// Terms are the contract parameters of a Selection without the identifiers.
type Terms struct {
	JoinType          pricing.JoinType
	ContractType      pricing.ContractType
	InstallmentMonths int
	BundleDiscount    bool
}

// Resolve looks up the device, plan and subsidy named by sel. Any missing
// record is ErrNotFound; the contract parameters are passed through unchecked
// for pricing.Calculate to validate.
func (s *Store) Resolve(ctx context.Context, sel Selection) (pricing.CalculationInput, error) {
	device, err := s.GetDevice(ctx, sel.DeviceID)
	if err != nil {
		return pricing.CalculationInput{}, err
	}
	plan, err := s.GetPlan(ctx, sel.PlanID)
	if err != nil {
		return pricing.CalculationInput{}, err
	}
	subsidy, err := s.GetSubsidy(ctx, sel.DeviceID, sel.PlanID)
	if err != nil {
		return pricing.CalculationInput{}, err
	}

	return pricing.CalculationInput{
		Device:            device,
		Plan:              plan,
		Subsidy:           subsidy,
		JoinType:          sel.JoinType,
		InstallmentMonths: sel.InstallmentMonths,
		ContractType:      sel.ContractType,
		BundleDiscount:    sel.BundleDiscount,
	}, nil
}

// InputsForPlan builds one input per device that has a subsidy record for planID.
// Devices without a subsidy for the plan are left out rather than priced at zero subsidy.
func (s *Store) InputsForPlan(ctx context.Context, planID string, terms Terms) ([]pricing.CalculationInput, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	subsidies, err := s.ListSubsidiesForPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	devices, err := s.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(devices, func(d pricing.Device) string { return d.ID })

	inputs := make([]pricing.CalculationInput, 0, len(subsidies))
	for _, sub := range subsidies {
		device, ok := byID[sub.DeviceID]
		if !ok {
			return nil, fmt.Errorf("subsidy for plan %q references device %q: %w", planID, sub.DeviceID, ErrNotFound)
		}
		inputs = append(inputs, pricing.CalculationInput{
			Device:            device,
			Plan:              plan,
			Subsidy:           sub,
			JoinType:          terms.JoinType,
			InstallmentMonths: terms.InstallmentMonths,
			ContractType:      terms.ContractType,
			BundleDiscount:    terms.BundleDiscount,
		})
	}
	return inputs, nil
}
