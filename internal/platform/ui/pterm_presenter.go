// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"legitscan/internal/core/domain"
)

// PTermPresenter renders the run with pterm: header box, score table,
// flag lists and a colored verdict.
type PTermPresenter struct{}

// NewPTermPresenter creates the terminal presenter.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start shows the run header.
func (p *PTermPresenter) Start(identity domain.CompanyIdentity) {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("LegitScan - Company Legitimacy Validation")

	pterm.Println()

	info := fmt.Sprintf("Company: %s\n", pterm.Cyan(identity.Name))
	info += fmt.Sprintf("GSTIN:   %s\n", orDash(identity.GSTIN))
	info += fmt.Sprintf("CIN:     %s", orDash(identity.CIN))

	pterm.DefaultBox.
		WithTitle("Validation Target").
		WithTitleTopCenter().
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Println(info)
	pterm.Println()
}

// ShowReport renders the settled report.
func (p *PTermPresenter) ShowReport(report *domain.LegitimacyReport) {
	pterm.DefaultSection.Println("Score Breakdown")

	rows := pterm.TableData{{"Component", "Score", "Status"}}
	for _, comp := range report.Breakdown.Components() {
		rows = append(rows, []string{
			comp.Name,
			fmt.Sprintf("%d", comp.Score),
			p.componentStatus(report, comp.Name),
		})
	}
	rows = append(rows, []string{"TOTAL", fmt.Sprintf("%d/100", report.TotalScore), ""})
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Println(err)
	}
	pterm.Println()

	if len(report.GreenFlags) > 0 {
		pterm.DefaultSection.WithLevel(2).Println(fmt.Sprintf("Green Flags (%d)", len(report.GreenFlags)))
		for _, flag := range report.GreenFlags {
			pterm.Success.Println(flag)
		}
		pterm.Println()
	}
	if len(report.RedFlags) > 0 {
		pterm.DefaultSection.WithLevel(2).Println(fmt.Sprintf("Red Flags (%d)", len(report.RedFlags)))
		for _, flag := range report.RedFlags {
			pterm.Warning.Println(flag)
		}
		pterm.Println()
	}

	if failed := report.FailedSources(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, n := range failed {
			names[i] = n.String()
		}
		pterm.Info.Println("Failed checks (scored zero): " + strings.Join(names, ", "))
		pterm.Println()
	}

	verdict := fmt.Sprintf("%s  (score %d/100, confidence %s)",
		report.Classification, report.TotalScore, report.Confidence)
	switch report.Classification {
	case domain.ClassLegitimate:
		pterm.Success.Println(verdict)
	case domain.ClassLikelyLegitimate:
		pterm.Info.Println(verdict)
	case domain.ClassQuestionable:
		pterm.Warning.Println(verdict)
	default:
		pterm.Error.Println(verdict)
	}

	pterm.Println()
	pterm.Printf("Completed in %.2fs\n", report.DurationSeconds)
}

// Info shows an informational message.
func (p *PTermPresenter) Info(msg string) {
	pterm.Info.Println(msg)
}

// Warning shows a warning.
func (p *PTermPresenter) Warning(msg string) {
	pterm.Warning.Println(msg)
}

// Error shows an error.
func (p *PTermPresenter) Error(msg string) {
	pterm.Error.Println(msg)
}

// Close implements Presenter.
func (p *PTermPresenter) Close() error {
	return nil
}

// componentStatus maps a breakdown component back to its check status.
func (p *PTermPresenter) componentStatus(report *domain.LegitimacyReport, component string) string {
	name := domain.SourceName(component)
	if !name.IsValid() {
		// The consistency row has no backing source.
		if report.Consistency != nil {
			return "evaluated"
		}
		return "skipped"
	}

	result := report.Result(name)
	if result == nil {
		return "skipped"
	}
	return result.Status.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
