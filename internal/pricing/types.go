package pricing

import "github.com/shopspring/decimal"

// JoinType is the way the customer acquires the line.
type JoinType string

const (
	JoinDeviceChange JoinType = "device-change"
	JoinNumberPort   JoinType = "number-port"
	JoinNewSignup    JoinType = "new-signup"
)

var joinTypeLabels = map[JoinType]string{
	JoinDeviceChange: "기기변경",
	JoinNumberPort:   "번호이동",
	JoinNewSignup:    "신규가입",
}

// Label returns the display label for the join type, or "" when unknown.
func (j JoinType) Label() string { return joinTypeLabels[j] }

// Valid reports whether j is one of the supported join types.
func (j JoinType) Valid() bool {
	_, ok := joinTypeLabels[j]
	return ok
}

// ContractType selects which discount mechanism applies.
// Public subsidy lowers the device price, selective contract lowers the plan fee.
type ContractType string

const (
	ContractPublicSubsidy     ContractType = "public-subsidy"
	ContractSelectiveContract ContractType = "selective-contract"
)

var contractTypeLabels = map[ContractType]string{
	ContractPublicSubsidy:     "공시지원금",
	ContractSelectiveContract: "선택약정",
}

// Label returns the display label for the contract type, or "" when unknown.
func (c ContractType) Label() string { return contractTypeLabels[c] }

// Valid reports whether c is one of the supported contract types.
func (c ContractType) Valid() bool {
	_, ok := contractTypeLabels[c]
	return ok
}

// InstallmentOptions lists the allowed installment schedules in months. 0 is lump-sum.
var InstallmentOptions = []int{0, 12, 24, 36}

// Color is a device color variant.
type Color struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Device is a handset offered in the catalog. Price is in won.
type Device struct {
	ID      string  `json:"id"`
	Brand   string  `json:"brand"`
	Model   string  `json:"model"`
	Storage string  `json:"storage"`
	Price   int64   `json:"price"`
	Colors  []Color `json:"colors,omitempty"`
}

// Plan is a monthly rate plan. BasePrice is in won and VAT-inclusive.
type Plan struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BasePrice   int64  `json:"basePrice"`
	Data        string `json:"data,omitempty"`
	Voice       string `json:"voice,omitempty"`
	SMS         string `json:"sms,omitempty"`
}

// Subsidy is the discount record for one device and plan pair.
type Subsidy struct {
	DeviceID   string `json:"deviceId"`
	PlanID     string `json:"planId"`
	Common     int64  `json:"common"`
	Additional int64  `json:"additional"`
	Select     int64  `json:"select"`
}

// GlobalSettings carries the rates applied to every calculation.
// Rates are fractions: 0.059 means 5.9%.
type GlobalSettings struct {
	InstallmentInterestRate decimal.Decimal `json:"installmentInterestRate"`
	SelectiveDiscountRate   decimal.Decimal `json:"selectiveDiscountRate"`
	BundleDiscountRate      decimal.Decimal `json:"bundleDiscountRate"`
	VATRate                 decimal.Decimal `json:"vatRate"`
	PricesIncludeVAT        bool            `json:"pricesIncludeVat"`
}

// DefaultSettings returns the rates used when an operator has not configured any.
func DefaultSettings() GlobalSettings {
	return GlobalSettings{
		InstallmentInterestRate: decimal.RequireFromString("0.059"),
		SelectiveDiscountRate:   decimal.RequireFromString("0.25"),
		BundleDiscountRate:      decimal.RequireFromString("0.1"),
		VATRate:                 decimal.RequireFromString("0.1"),
		PricesIncludeVAT:        true,
	}
}

// CalculationInput is everything needed to price one device on one plan.
type CalculationInput struct {
	Device            Device       `json:"device"`
	Plan              Plan         `json:"plan"`
	Subsidy           Subsidy      `json:"subsidy"`
	JoinType          JoinType     `json:"joinType"`
	InstallmentMonths int          `json:"installmentMonths"`
	ContractType      ContractType `json:"contractType"`
	BundleDiscount    bool         `json:"bundleDiscount"`
}

// Breakdown is the full set of intermediate values. All amounts are whole won.
type Breakdown struct {
	DevicePrice              int64 `json:"devicePrice"`
	AppliedSubsidy           int64 `json:"appliedSubsidy"`
	DeviceNetPrice           int64 `json:"deviceNetPrice"`
	MonthlyDeviceInstallment int64 `json:"monthlyDeviceInstallment"`
	InstallmentInterest      int64 `json:"installmentInterest"`
	PlanBasePrice            int64 `json:"planBasePrice"`
	SelectiveDiscount        int64 `json:"selectiveDiscount"`
	BundleDiscount           int64 `json:"bundleDiscount"`
	MonthlyPlanFee           int64 `json:"monthlyPlanFee"`
	VATIncluded              bool  `json:"vatIncluded"`
	VATPortion               int64 `json:"vatPortion"`
}

// Contract echoes the contract parameters a result was computed with.
type Contract struct {
	JoinType          JoinType     `json:"joinType"`
	JoinTypeLabel     string       `json:"joinTypeLabel"`
	ContractType      ContractType `json:"contractType"`
	ContractTypeLabel string       `json:"contractTypeLabel"`
	InstallmentMonths int          `json:"installmentMonths"`
}

// CalculationResult is the customer's monthly bill.
type CalculationResult struct {
	MonthlyDeviceFee int64     `json:"monthlyDeviceFee"`
	MonthlyPlanFee   int64     `json:"monthlyPlanFee"`
	TotalMonthlyFee  int64     `json:"totalMonthlyFee"`
	Breakdown        Breakdown `json:"breakdown"`
	Contract         Contract  `json:"contract"`
}
