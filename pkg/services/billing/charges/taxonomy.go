package charges

const (
	PreviousBalance  = "previous_balance"
	TotalPayments    = "total_payments"
	TotalAdjustments = "total_adjustments"
	CreditBalance    = "credit_balance"
	PaymentReceived  = "payment_received"

	BalanceForward    = "balance_forward"
	TotalChargesDue   = "total_charges_due"
	TotalCharges      = "total_charges"
	SurchargesCredits = "surcharges_credits"
)

// Taxonomy describes which ukeys open a group and where known children go.
type Taxonomy struct {
	Name      string
	Roots     []string
	Parents   map[string]string // child ukey -> root ukey
	Pinned    map[string]string // attached to the root wherever they appear
	TotalKeys []string          // roots summed into the grand total

	Title        string
	DetailTitle  string // used instead of Title when any DetailKeys is present
	DetailKeys   []string
	AnnotateUKey string // receives the late fee annotation
}

var adjustmentChildren = []string{
	"sales_discretionary_credit",
	"access_adjustments",
	"retail_device_tradein",
	"other_charges",
	"state_tax_adjustment",
}

var currentChargesChildren = []string{
	"monthly_charges",
	"equipment_charges",
	"usage_purchase",
	SurchargesCredits,
	"Taxes_fees",
}

var PaymentsTaxonomy = Taxonomy{
	Name:        "payments",
	Roots:       []string{PreviousBalance, TotalPayments, TotalAdjustments, CreditBalance},
	Parents:     childrenOf(TotalAdjustments, adjustmentChildren),
	Pinned:      map[string]string{PaymentReceived: TotalPayments},
	Title:       "Payments Summary",
	DetailTitle: "Payments and Adjustments Summary",
	DetailKeys:  append([]string{TotalAdjustments}, adjustmentChildren...),
}

var ChargesTaxonomy = Taxonomy{
	Name:         "charges",
	Roots:        []string{BalanceForward, TotalChargesDue, TotalCharges},
	Parents:      childrenOf(TotalChargesDue, currentChargesChildren),
	TotalKeys:    []string{BalanceForward, TotalChargesDue},
	Title:        "All Charges Summary",
	AnnotateUKey: SurchargesCredits,
}

func childrenOf(root string, children []string) map[string]string {
	out := make(map[string]string, len(children))
	for _, c := range children {
		out[c] = root
	}
	return out
}

func (t Taxonomy) isRoot(ukey string) bool {
	for _, r := range t.Roots {
		if r == ukey {
			return true
		}
	}
	return false
}

func (t Taxonomy) parentOf(ukey string) (string, bool) {
	if root, ok := t.Pinned[ukey]; ok {
		return root, true
	}
	root, ok := t.Parents[ukey]
	return root, ok
}

func (t Taxonomy) isTotalKey(ukey string) bool {
	for _, k := range t.TotalKeys {
		if k == ukey {
			return true
		}
	}
	return false
}
