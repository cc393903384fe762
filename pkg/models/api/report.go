package api

type ChargeNode struct {
	UKey     string             `json:"ukey"`
	Sentence string             `json:"sentence"`
	Amount   string             `json:"amount"`
	Value    string             `json:"value"`
	Date     string             `json:"date,omitempty"`
	Children []ChargeNode       `json:"children,omitempty"`
	LateFees *LateFeeAnnotation `json:"late_fees,omitempty"`
}

type LateFeeAnnotation struct {
	HasLateFees   bool   `json:"has_late_fees"`
	TotalLateFees string `json:"total_late_fees"`
	LateFeeCount  int    `json:"late_fee_count"`
}

type Hierarchy struct {
	Title      string       `json:"title"`
	Nodes      []ChargeNode `json:"nodes"`
	GrandTotal string       `json:"grand_total,omitempty"`
}

type DistributionSlice struct {
	Label      string `json:"label"`
	Phone      string `json:"phone"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage"`
	Color      string `json:"color"`
}

type LineItem struct {
	UKey    string        `json:"ukey"`
	Label   string        `json:"label"`
	Amount  string        `json:"amount"`
	IsTotal bool          `json:"is_total,omitempty"`
	Groups  []SubKeyGroup `json:"groups,omitempty"`
}

type SubKeyGroup struct {
	Category string       `json:"category,omitempty"`
	Items    []SubKeyLine `json:"items"`
}

type SubKeyLine struct {
	Label      string `json:"label"`
	Amount     string `json:"amount"`
	Expiration string `json:"expiration,omitempty"`
	DateRange  string `json:"date_range,omitempty"`
}

type LineDetail struct {
	DisplayName    string     `json:"display_name"`
	Phone          string     `json:"phone"`
	Total          string     `json:"total"`
	SectionID      string     `json:"section_id"`
	ExportFileName string     `json:"export_file_name"`
	Items          []LineItem `json:"items"`
}

type InvoiceSummary struct {
	Account             string              `json:"account"`
	Invoice             string              `json:"invoice"`
	BillingPeriod       string              `json:"billing_period"`
	DueDate             string              `json:"due_date"`
	TotalCharges        string              `json:"total_charges"`
	Payments            Hierarchy           `json:"payments"`
	Charges             Hierarchy           `json:"charges"`
	Distribution        []DistributionSlice `json:"distribution"`
	Lines               []LineDetail        `json:"lines"`
	AccountLevelCharges []LateFee           `json:"account_level_charges,omitempty"`
	FileName            string              `json:"file_name,omitempty"`
}

type OverallPoint struct {
	Period      string `json:"period"`
	TimestampMs int64  `json:"timestamp_ms"`
	Total       string `json:"total"`
	Invoice     string `json:"invoice"`
}

type ChartPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	Entity string  `json:"entity"`
}

type BillRow struct {
	Invoice       string `json:"invoice"`
	BillingPeriod string `json:"billing_period"`
	TotalCharges  string `json:"total_charges"`
}

type History struct {
	Success bool           `json:"success"`
	Account string         `json:"account,omitempty"`
	Overall []OverallPoint `json:"overall,omitempty"`
	Lines   []ChartPoint   `json:"lines,omitempty"`
	Bills   []BillRow      `json:"bills,omitempty"`
}

type ExportAccepted struct {
	Section  string `json:"section"`
	FileName string `json:"file_name"`
	Location string `json:"location,omitempty"`
	Pages    int    `json:"pages"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type ExportStatus struct {
	Section string `json:"section"`
	State   string `json:"state"`
}

type Health struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
}
