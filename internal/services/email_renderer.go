package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/rocjay1/statement-sorter/internal/models"
)

// RenderTotalsTable renders one table row per category plus a total line.
func RenderTotalsTable(summary *models.Summary) string {
	var rows strings.Builder
	for _, c := range summary.Categories() {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding: 6px 12px;">%s</td><td style="padding: 6px 12px; text-align: right;">%s</td></tr>`,
			html.EscapeString(string(c)), models.FormatCAD(summary.Totals[c]),
		))
	}

	return fmt.Sprintf(`
		<table style="width: 100%%; border-collapse: collapse;">
			<thead>
				<tr style="border-bottom: 2px solid #0078d4;"><th style="text-align: left; padding: 6px 12px;">Category</th><th style="text-align: right; padding: 6px 12px;">Amount</th></tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr style="border-top: 2px solid #0078d4; font-weight: bold;"><td style="padding: 6px 12px;">Total</td><td style="padding: 6px 12px; text-align: right;">%s</td></tr>
			</tfoot>
		</table>
	`, rows.String(), models.FormatCAD(summary.ClassifiedTotal()))
}

// RenderMismatchSection warns when the classified total drifts from the
// statement total. It is empty when the two reconcile.
func RenderMismatchSection(summary *models.Summary) string {
	if summary.Reconciles() {
		return ""
	}
	return fmt.Sprintf(`
		<div style="background-color: #fff4f4; border-left: 5px solid #d13438; padding: 15px; margin-top: 20px;">
			<p style="margin: 0;">Statement purchases were %s but %s was classified. %d transactions (%s) were skipped as payments, fees or credits.</p>
		</div>
	`, models.FormatCAD(summary.StatementTotal), models.FormatCAD(summary.ClassifiedTotal()),
		summary.Ignored, models.FormatCAD(summary.IgnoredTotal))
}

// RenderSummaryBody renders the full HTML body for a summary email.
func RenderSummaryBody(month string, summary *models.Summary) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #0078d4; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">%s</h2>
				</div>
				<div style="padding: 20px;">
					%s
					%s
				</div>
			</div>
		</body>
		</html>
	`, html.EscapeString(month), RenderTotalsTable(summary), RenderMismatchSection(summary))
}

// RenderFailureBody renders the HTML body sent when a statement fails.
func RenderFailureBody(reasons []string) string {
	var items strings.Builder
	for _, r := range reasons {
		items.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(r)))
	}

	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #d13438; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Statement Failed</h2>
				</div>
				<div style="padding: 20px;">
					<p>The uploaded statement could not be processed:</p>
					<ul style="margin-bottom: 0; padding-left: 20px;">
						%s
					</ul>
				</div>
			</div>
		</body>
		</html>
	`, items.String())
}
