package policy

import (
	"fmt"

	"github.com/temirov/gitcare/internal/ui"
)

const (
	cleanReportTemplateConstant        = "%s passes all checks"
	appliedOnBranchTemplateConstant    = "%s; made executable and committed on %s"
	appliedTemplateConstant            = "%s; made executable and committed"
	skippedRemediationTemplateConstant = "%s; left unchanged"
	failedRemediationTemplateConstant  = "%s; remediation failed: %s"
)

// ReportLines converts a report into console status lines in finding order.
func ReportLines(report Report) []ui.Line {
	if len(report.Findings) == 0 {
		return []ui.Line{{Status: ui.StatusSuccess, Text: fmt.Sprintf(cleanReportTemplateConstant, report.Root)}}
	}
	lines := make([]ui.Line, 0, len(report.Findings))
	for _, finding := range report.Findings {
		lines = append(lines, findingLine(finding))
	}
	return lines
}

func findingLine(finding Finding) ui.Line {
	switch {
	case finding.Severity == SeverityFatal || finding.Severity == SeverityFailure:
		return ui.Line{Status: ui.StatusFailure, Text: finding.Message}
	case len(finding.Remediation.Error) > 0:
		return ui.Line{Status: ui.StatusFailure, Text: fmt.Sprintf(failedRemediationTemplateConstant, finding.Message, finding.Remediation.Error)}
	case finding.Remediation.Applied && len(finding.Remediation.Branch) > 0:
		return ui.Line{Status: ui.StatusSuccess, Text: fmt.Sprintf(appliedOnBranchTemplateConstant, finding.Message, finding.Remediation.Branch)}
	case finding.Remediation.Applied:
		return ui.Line{Status: ui.StatusSuccess, Text: fmt.Sprintf(appliedTemplateConstant, finding.Message)}
	case finding.Remediation.Offered:
		return ui.Line{Status: ui.StatusAdvisory, Text: fmt.Sprintf(skippedRemediationTemplateConstant, finding.Message)}
	default:
		return ui.Line{Status: ui.StatusAdvisory, Text: finding.Message}
	}
}
