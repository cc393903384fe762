package view

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Invoice}}Invoice {{.Invoice}}{{else}}Bill Atlas{{end}}</title>
</head>
<body style="background-color: #111827; color: #ffffff; font-family: Inter, Arial, sans-serif; font-size: 14px">
{{- if .Empty}}
<main><p>No billing document loaded.</p></main>
{{- else}}
<main>
<section id="account-information" style="padding: 16px; margin-bottom: 24px">
	<h2 style="color: #ffffff">Account Information</h2>
	{{template "export" (exportArgs $.ExportBase "account-information")}}
	<table style="width: 100%">
		<tr><td style="color: #9ca3af">Account Number</td><td>{{.Account}}</td></tr>
		<tr><td style="color: #9ca3af">Invoice Number</td><td>{{.Invoice}}</td></tr>
		<tr><td style="color: #9ca3af">Billing Period</td><td>{{.BillingPeriod}}</td></tr>
		<tr><td style="color: #9ca3af">Due Date</td><td>{{.DueDate}}</td></tr>
		<tr><td style="color: #9ca3af">Total Charges</td><td>{{.TotalCharges}}</td></tr>
		{{- if .FileName}}
		<tr><td style="color: #9ca3af">Source File</td><td>{{.FileName}}{{if .TotalPages}} ({{.TotalPages}} pages){{end}}</td></tr>
		{{- end}}
	</table>
</section>
{{- with .Payments}}{{if .Nodes}}
<section id="payments-summary" style="padding: 16px; margin-bottom: 24px">
	<h2 style="color: #ffffff">{{.Title}}</h2>
	{{template "export" (exportArgs $.ExportBase "payments-summary")}}
	{{template "hierarchy" .}}
</section>
{{- end}}{{end}}
{{- with .Charges}}{{if .Nodes}}
<section id="charges-summary" style="padding: 16px; margin-bottom: 24px">
	<h2 style="color: #ffffff">{{.Title}}</h2>
	{{template "export" (exportArgs $.ExportBase "charges-summary")}}
	{{template "hierarchy" .}}
</section>
{{- end}}{{end}}
{{- if .Distribution}}
<section id="charge-distribution" style="padding: 16px; margin-bottom: 24px">
	<h2 style="color: #ffffff">Charge Distribution</h2>
	{{template "export" (exportArgs $.ExportBase "charge-distribution")}}
	<svg class="am5-chart" width="240" height="240" viewBox="0 0 240 240"><circle cx="120" cy="120" r="100" fill="#1f2937"></circle></svg>
	<ul class="distribution-legend" style="list-style: none; padding: 0">
	{{- range .Distribution}}
		<li style="display: flex; justify-content: space-between; margin-bottom: 4px">
			<span><span style="display: inline-block; width: 10px; height: 10px; background-color: {{.Color | safeCSS}}"></span>
			{{.Label}}{{if and .Phone (not .AccountLevel)}} ({{.Phone}}){{end}}</span>
			<span>{{money .Amount}} &middot; {{percent .Percentage}}</span>
		</li>
	{{- end}}
	</ul>
</section>
{{- end}}
{{- range .Lines}}
<section id="{{.SectionID}}" class="line-detail-card" style="padding: 16px; margin-bottom: 16px; border: 1px solid #374151">
	<h3 style="color: #ffffff">{{.DisplayName}}</h3>
	{{- if .Phone}}<p class="MuiTypography-body2" style="color: #d1d5db">{{.Phone}}</p>{{end}}
	{{template "export" (exportArgs $.ExportBase .SectionID)}}
	<table style="width: 100%">
	{{- range .Items}}
		<tr{{if .IsTotal}} style="font-weight: 700"{{end}}><td>{{.Label}}</td><td style="text-align: right">{{.Amount}}</td></tr>
		{{- range .Groups}}
		{{- if .Category}}<tr><td colspan="2" class="MuiTypography-caption" style="color: #9ca3af">{{.Category}}</td></tr>{{end}}
		{{- range .Items}}
		<tr><td style="padding-left: 16px">{{.Label}}{{if .DateRange}} <span class="MuiTypography-caption">{{.DateRange}}</span>{{end}}</td><td style="text-align: right">{{.Amount}}</td></tr>
		{{- end}}
		{{- end}}
	{{- end}}
	</table>
</section>
{{- end}}
{{- if .AccountLevelCharges}}
<section id="account-level-charges-card" style="padding: 16px; margin-bottom: 16px; border: 1px solid #374151">
	<h3 style="color: #ffffff">Account Level Charges</h3>
	{{template "export" (exportArgs $.ExportBase "account-level-charges-card")}}
	<table style="width: 100%">
	{{- range .AccountLevelCharges}}
		<tr><td>{{if .Sentence}}{{.Sentence}}{{else}}{{.Name}}{{end}}</td><td style="text-align: right">{{.Amount}}</td></tr>
	{{- end}}
	</table>
</section>
{{- end}}
</main>
{{- end}}
</body>
</html>
{{- define "hierarchy"}}
	<table style="width: 100%">
	{{- range .Nodes}}{{template "node" .}}{{end}}
	{{- if .HasGrandTotal}}
		<tr class="grand-total" style="font-weight: 700; border-top: 2px solid #ffffff"><td>{{grandTotalLabel}}</td><td style="text-align: right">{{.GrandTotalDisplay}}</td></tr>
	{{- end}}
	</table>
{{- end}}
{{- define "node"}}
		<tr data-ukey="{{.UKey}}"><td>{{.Sentence}}{{if .Date}} <span class="MuiTypography-caption">{{.Date}}</span>{{end}}</td><td style="text-align: right">{{.Amount}}</td></tr>
		{{- with .LateFees}}{{if .HasLateFees}}
		<tr class="late-fees"><td style="padding-left: 16px; color: #d1d5db">Includes {{.LateFeeCount}} late fee(s)</td><td style="text-align: right">{{money .TotalLateFees}}</td></tr>
		{{- end}}{{end}}
		{{- range .Children}}
		<tr data-ukey="{{.UKey}}" class="child"><td style="padding-left: 16px">{{.Sentence}}{{if .Date}} <span class="MuiTypography-caption">{{.Date}}</span>{{end}}</td><td style="text-align: right">{{.Amount}}</td></tr>
		{{- end}}
{{- end}}
{{- define "export"}}
	{{- if .Base}}
	<form method="post" action="{{.Base}}/{{.Section}}" class="export-form"><button type="submit" class="export-button">Export PDF</button></form>
	{{- end}}
{{- end}}
`
