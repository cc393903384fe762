package domain

// ExportOutcome is the result of exporting one report section of an invoice.
type ExportOutcome struct {
	Invoice  string
	Section  string
	FileName string
	Location string
	Pages    int
	Aborted  bool
}
