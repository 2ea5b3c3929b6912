package quotes

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/planquote/internal/pricing"
)

// Won formats an amount with thousands separators and the 원 suffix.
func Won(v int64) string {
	return humanize.Comma(v) + "원"
}

// RenderText formats a quote as a plain-text summary for support staff.
func RenderText(q Quote) string {
	in, res, b := q.Input, q.Result, q.Result.Breakdown

	var sb strings.Builder
	title := q.Title
	if title == "" {
		title = "견적 " + q.ID
	}
	fmt.Fprintf(&sb, "%s\n", title)
	fmt.Fprintf(&sb, "작성: %s\n", q.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "월 납부액: %s\n\n", Won(res.TotalMonthlyFee))

	sb.WriteString("계약 조건:\n")
	fmt.Fprintf(&sb, "- 가입 유형: %s\n", res.Contract.JoinTypeLabel)
	fmt.Fprintf(&sb, "- 할인 방식: %s\n", res.Contract.ContractTypeLabel)
	if res.Contract.InstallmentMonths == 0 {
		sb.WriteString("- 할부: 일시불\n")
	} else {
		fmt.Fprintf(&sb, "- 할부: %d개월\n", res.Contract.InstallmentMonths)
	}
	if in.BundleDiscount {
		sb.WriteString("- 결합 할인 적용\n")
	}

	sb.WriteString("\n단말기:\n")
	fmt.Fprintf(&sb, "- %s %s %s\n", in.Device.Brand, in.Device.Model, in.Device.Storage)
	fmt.Fprintf(&sb, "- 출고가: %s\n", Won(b.DevicePrice))
	if in.ContractType == pricing.ContractPublicSubsidy {
		fmt.Fprintf(&sb, "- 지원금: %s\n", Won(b.AppliedSubsidy))
	}
	if res.Contract.InstallmentMonths == 0 {
		fmt.Fprintf(&sb, "- 일시불 결제액: %s\n", Won(b.DeviceNetPrice))
	} else {
		fmt.Fprintf(&sb, "- 할부원금: %s\n", Won(b.DeviceNetPrice))
		fmt.Fprintf(&sb, "- 월 할부금: %s (할부이자 %s)\n", Won(b.MonthlyDeviceInstallment), Won(b.InstallmentInterest))
	}

	sb.WriteString("\n요금제:\n")
	fmt.Fprintf(&sb, "- %s\n", in.Plan.Name)
	fmt.Fprintf(&sb, "- 기본료: %s\n", Won(b.PlanBasePrice))
	if b.SelectiveDiscount > 0 {
		fmt.Fprintf(&sb, "- 선택약정 할인: -%s\n", Won(b.SelectiveDiscount))
	}
	if b.BundleDiscount > 0 {
		fmt.Fprintf(&sb, "- 결합 할인: -%s\n", Won(b.BundleDiscount))
	}
	fmt.Fprintf(&sb, "- 월 요금: %s\n", Won(b.MonthlyPlanFee))

	if b.VATIncluded {
		fmt.Fprintf(&sb, "\n부가세 포함 (부가세 %s)\n", Won(b.VATPortion))
	} else {
		sb.WriteString("\n부가세 별도\n")
	}

	if q.Notes != "" {
		fmt.Fprintf(&sb, "\n메모: %s\n", q.Notes)
	}
	return sb.String()
}
