package valueobject

import "strings"

// CostCenter identifies one of the fixed cost-center buckets fed into the
// closing-costs block of the statement.
type CostCenter string

const (
	CostCenterPayroll     CostCenter = "payroll"
	CostCenterPartners    CostCenter = "partners"
	CostCenterTaxes       CostCenter = "taxes"
	CostCenterRent        CostCenter = "rent"
	CostCenterUtilities   CostCenter = "utilities"
	CostCenterSoftware    CostCenter = "software"
	CostCenterMarketing   CostCenter = "marketing"
	CostCenterOutsourcing CostCenter = "outsourcing"
	CostCenterBankFees    CostCenter = "bank_fees"
	CostCenterOther       CostCenter = "other"
)

// costCenterAliases maps the normalized names used by the cost records of the
// back office onto the fixed buckets. Keys are lower-case and trimmed.
var costCenterAliases = map[string]CostCenter{
	"folha de pagamento":     CostCenterPayroll,
	"folha":                  CostCenterPayroll,
	"salarios":               CostCenterPayroll,
	"salários":               CostCenterPayroll,
	"payroll":                CostCenterPayroll,
	"pro-labore":             CostCenterPartners,
	"pró-labore":             CostCenterPartners,
	"pro labore":             CostCenterPartners,
	"impostos":               CostCenterTaxes,
	"tributos":               CostCenterTaxes,
	"taxes":                  CostCenterTaxes,
	"aluguel":                CostCenterRent,
	"rent":                   CostCenterRent,
	"energia e internet":     CostCenterUtilities,
	"energia":                CostCenterUtilities,
	"internet":               CostCenterUtilities,
	"utilities":              CostCenterUtilities,
	"softwares e sistemas":   CostCenterSoftware,
	"software":               CostCenterSoftware,
	"sistemas":               CostCenterSoftware,
	"marketing":              CostCenterMarketing,
	"serviços terceirizados": CostCenterOutsourcing,
	"servicos terceirizados": CostCenterOutsourcing,
	"terceirizados":          CostCenterOutsourcing,
	"outsourcing":            CostCenterOutsourcing,
	"despesas bancárias":     CostCenterBankFees,
	"despesas bancarias":     CostCenterBankFees,
	"tarifas bancárias":      CostCenterBankFees,
	"bank fees":              CostCenterBankFees,
}

// costCenterLines is the description of the closing-cost line each bucket
// is written into.
var costCenterLines = map[CostCenter]string{
	CostCenterPayroll:     "Folha de Pagamento",
	CostCenterPartners:    "Pró-labore",
	CostCenterTaxes:       "Impostos",
	CostCenterRent:        "Aluguel",
	CostCenterUtilities:   "Energia e Internet",
	CostCenterSoftware:    "Softwares e Sistemas",
	CostCenterMarketing:   "Marketing",
	CostCenterOutsourcing: "Serviços Terceirizados",
	CostCenterBankFees:    "Despesas Bancárias",
	CostCenterOther:       "Outras Despesas",
}

// CostCenters returns every bucket in statement order.
func CostCenters() []CostCenter {
	return []CostCenter{
		CostCenterPayroll,
		CostCenterPartners,
		CostCenterTaxes,
		CostCenterRent,
		CostCenterUtilities,
		CostCenterSoftware,
		CostCenterMarketing,
		CostCenterOutsourcing,
		CostCenterBankFees,
		CostCenterOther,
	}
}

// ClassifyCostCenter resolves a free-text cost-center name. Unknown or
// empty names resolve to CostCenterOther.
func ClassifyCostCenter(name string) CostCenter {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if key == "" {
		return CostCenterOther
	}
	if center, ok := costCenterAliases[key]; ok {
		return center
	}
	return CostCenterOther
}

// LineDescription returns the seed description of the line the bucket feeds.
func (c CostCenter) LineDescription() string {
	if desc, ok := costCenterLines[c]; ok {
		return desc
	}
	return costCenterLines[CostCenterOther]
}

// LineKey returns the stable key of the statement line the bucket feeds.
// Descriptions can be renamed through the edit gate; keys cannot.
func (c CostCenter) LineKey() string {
	return "cost:" + string(c)
}
