// Package pricing derives a customer's monthly bill for a device on a rate plan.
//
// Calculate is pure: it does no I/O, keeps no state and returns identical
// results for identical inputs, so it is safe to call from any number of
// goroutines. All amounts are whole won.
package pricing

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Calculate computes the monthly device fee, monthly plan fee and their total.
//
// Public subsidy lowers the device price by common+additional subsidy.
// Selective contract leaves the device price untouched and lowers the plan
// fee by the selective discount rate. The two never apply together. A bundle
// discount stacks on the plan fee under either contract type. Each discount
// amount is rounded to whole won before it is subtracted, and no fee goes
// below zero.
func Calculate(input CalculationInput, settings GlobalSettings) (CalculationResult, error) {
	if err := validate(input, settings); err != nil {
		return CalculationResult{}, err
	}

	var appliedSubsidy int64
	if input.ContractType == ContractPublicSubsidy {
		appliedSubsidy = input.Subsidy.Common + input.Subsidy.Additional
	}
	deviceNetPrice := clampZero(input.Device.Price - appliedSubsidy)

	monthlyDevice := Amortize(deviceNetPrice, settings.InstallmentInterestRate, input.InstallmentMonths)
	var interest int64
	if input.InstallmentMonths > 0 {
		interest = clampZero(monthlyDevice*int64(input.InstallmentMonths) - deviceNetPrice)
	}

	var selectiveDiscount int64
	if input.ContractType == ContractSelectiveContract {
		selectiveDiscount = applyRate(input.Plan.BasePrice, settings.SelectiveDiscountRate)
	}
	var bundleDiscount int64
	if input.BundleDiscount {
		bundleDiscount = applyRate(input.Plan.BasePrice, settings.BundleDiscountRate)
	}
	monthlyPlan := clampZero(input.Plan.BasePrice - selectiveDiscount - bundleDiscount)

	total := monthlyDevice + monthlyPlan

	var vat int64
	if settings.PricesIncludeVAT {
		vat = vatPortion(total, settings.VATRate)
	}

	return CalculationResult{
		MonthlyDeviceFee: monthlyDevice,
		MonthlyPlanFee:   monthlyPlan,
		TotalMonthlyFee:  total,
		Breakdown: Breakdown{
			DevicePrice:              input.Device.Price,
			AppliedSubsidy:           appliedSubsidy,
			DeviceNetPrice:           deviceNetPrice,
			MonthlyDeviceInstallment: monthlyDevice,
			InstallmentInterest:      interest,
			PlanBasePrice:            input.Plan.BasePrice,
			SelectiveDiscount:        selectiveDiscount,
			BundleDiscount:           bundleDiscount,
			MonthlyPlanFee:           monthlyPlan,
			VATIncluded:              settings.PricesIncludeVAT,
			VATPortion:               vat,
		},
		Contract: Contract{
			JoinType:          input.JoinType,
			JoinTypeLabel:     input.JoinType.Label(),
			ContractType:      input.ContractType,
			ContractTypeLabel: input.ContractType.Label(),
			InstallmentMonths: input.InstallmentMonths,
		},
	}, nil
}

// MaxAmount is the largest won amount accepted for any price or subsidy.
// It keeps every sum and installment product well inside int64.
const MaxAmount int64 = 1_000_000_000_000

func validate(in CalculationInput, s GlobalSettings) error {
	for _, f := range []struct {
		field string
		value int64
	}{
		{"device.price", in.Device.Price},
		{"plan.basePrice", in.Plan.BasePrice},
		{"subsidy.common", in.Subsidy.Common},
		{"subsidy.additional", in.Subsidy.Additional},
		{"subsidy.select", in.Subsidy.Select},
	} {
		if err := ValidateAmount(f.field, f.value); err != nil {
			return err
		}
	}

	if in.Subsidy.DeviceID != in.Device.ID || in.Subsidy.PlanID != in.Plan.ID {
		return invalid(FieldSubsidyMismatch, "subsidy is for device %q plan %q, input is device %q plan %q",
			in.Subsidy.DeviceID, in.Subsidy.PlanID, in.Device.ID, in.Plan.ID)
	}

	if err := ValidateTerms(in.JoinType, in.ContractType, in.InstallmentMonths); err != nil {
		return err
	}
	return ValidateSettings(s)
}

// ValidateAmount checks that a won amount lies in [0, MaxAmount].
func ValidateAmount(field string, v int64) error {
	if v < 0 {
		return invalid(field, "must not be negative, got %d", v)
	}
	if v > MaxAmount {
		return invalid(field, "must not exceed %d, got %d", MaxAmount, v)
	}
	return nil
}

// ValidateTerms checks the contract parameters shared by every device priced
// under one selection.
func ValidateTerms(join JoinType, contract ContractType, months int) error {
	if !slices.Contains(InstallmentOptions, months) {
		return invalid("installmentMonths", "must be one of %v, got %d", InstallmentOptions, months)
	}
	if !join.Valid() {
		return invalid("joinType", "unknown join type %q", join)
	}
	if !contract.Valid() {
		return invalid("contractType", "unknown contract type %q", contract)
	}
	return nil
}

// ValidateSettings checks that every rate is a fraction in [0, 1].
func ValidateSettings(s GlobalSettings) error {
	for _, r := range []struct {
		field string
		value decimal.Decimal
	}{
		{"settings.installmentInterestRate", s.InstallmentInterestRate},
		{"settings.selectiveDiscountRate", s.SelectiveDiscountRate},
		{"settings.bundleDiscountRate", s.BundleDiscountRate},
		{"settings.vatRate", s.VATRate},
	} {
		if r.value.IsNegative() || r.value.GreaterThan(decimalOne) {
			return invalid(r.field, "must be between 0 and 1, got %s", r.value)
		}
	}
	return nil
}
