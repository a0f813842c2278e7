package policy

// Kind identifies the rule outcome a finding represents.
type Kind string

// Finding kinds.
const (
	KindNotARepository              Kind = "NotARepository"
	KindUnconfiguredIdentitySetting Kind = "UnconfiguredIdentitySetting"
	KindNoRemoteConfigured          Kind = "NoRemoteConfigured"
	KindMissingRequiredFile         Kind = "MissingRequiredFile"
	KindNonExecutableScript         Kind = "NonExecutableScript"
	KindUncommittedRemediation      Kind = "UncommittedRemediation"
	KindDisallowedFileType          Kind = "DisallowedFileType"
)

// Severity ranks how a finding affects the outcome of a check.
type Severity string

// Finding severities.
const (
	SeverityFatal    Severity = "fatal"
	SeverityAdvisory Severity = "advisory"
	SeverityFailure  Severity = "failure"
)

// Decision is the response to a remediable finding.
type Decision string

// Remediation decisions.
const (
	DecisionSkip  Decision = "skip"
	DecisionApply Decision = "apply"
)

// Remediation records what happened to a remediable finding.
type Remediation struct {
	Offered  bool     `yaml:"offered,omitempty"`
	Decision Decision `yaml:"decision,omitempty"`
	Applied  bool     `yaml:"applied,omitempty"`
	Branch   string   `yaml:"branch,omitempty"`
	Error    string   `yaml:"error,omitempty"`
}

// Finding is one immutable outcome of policy evaluation.
type Finding struct {
	Kind        Kind        `yaml:"kind"`
	Severity    Severity    `yaml:"severity"`
	Path        string      `yaml:"path,omitempty"`
	Key         string      `yaml:"key,omitempty"`
	MimeType    string      `yaml:"mime_type,omitempty"`
	Message     string      `yaml:"message"`
	Remediation Remediation `yaml:"remediation,omitempty"`
}

// Report is the ordered result of evaluating one root.
type Report struct {
	Root     string    `yaml:"root"`
	Findings []Finding `yaml:"findings"`
}

// HasFailures reports whether any finding is fatal, a failure, or carries a remediation error.
func (report Report) HasFailures() bool {
	for _, finding := range report.Findings {
		if finding.Severity == SeverityFatal || finding.Severity == SeverityFailure {
			return true
		}
		if len(finding.Remediation.Error) > 0 {
			return true
		}
	}
	return false
}

// FindingsOfKind returns the findings with the given kind in evaluation order.
func (report Report) FindingsOfKind(kind Kind) []Finding {
	var matching []Finding
	for _, finding := range report.Findings {
		if finding.Kind == kind {
			matching = append(matching, finding)
		}
	}
	return matching
}
