package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitcare/internal/classify"
	"github.com/temirov/gitcare/internal/filesystem"
	"github.com/temirov/gitcare/internal/gitrepo"
)

const (
	// RemediationCommitMessage is the message used when committing script permission fixes.
	RemediationCommitMessage = "Make scripts executable"
	// DefaultScriptPattern selects the files whose execute bit is enforced.
	DefaultScriptPattern = "*.sh"

	gatewayMissingMessageConstant    = "policy repository gateway not configured"
	classifierMissingMessageConstant = "policy file classifier not configured"
	ruleFailureTemplateConstant      = "policy rule %s: %w"
	logFieldRuleConstant             = "rule"
	logFieldRootConstant             = "root"
	logFieldFindingCountConstant     = "findings"
	evaluationCompleteMessage        = "policy evaluation complete"
)

// ErrGatewayNotConfigured indicates NewEngine received no repository gateway.
var ErrGatewayNotConfigured = errors.New(gatewayMissingMessageConstant)

// ErrClassifierNotConfigured indicates NewEngine received no file classifier.
var ErrClassifierNotConfigured = errors.New(classifierMissingMessageConstant)

// DefaultIdentityKeys lists the configuration keys every contributor is expected to set.
func DefaultIdentityKeys() []string {
	return []string{"user.name", "user.email", "push.default"}
}

// DefaultRequiredFiles lists the files expected at the repository root.
func DefaultRequiredFiles() []string {
	return []string{"README.md", ".gitignore", ".gitattributes"}
}

// DefaultDisallowedTypes lists the content types that must not be committed.
func DefaultDisallowedTypes() []string {
	return []string{
		"application/msword",
		"application/vnd.ms-excel",
		"application/vnd.ms-powerpoint",
		"application/x-ole-storage",
		"application/pdf",
		"application/x-iso9660-image",
		"application/x-executable",
		"application/x-elf",
		"application/x-sharedlib",
		"application/x-mach-binary",
		"application/vnd.microsoft.portable-executable",
		"application/x-msdownload",
		"application/x-dosexec",
	}
}

// Dependencies enumerates the collaborators used during evaluation.
type Dependencies struct {
	Gateway    RepositoryGateway
	Classifier classify.Classifier
	FileSystem filesystem.FileSystem
	Decisions  DecisionSource
	Locker     gitrepo.RepositoryLocker
	Logger     *zap.Logger
}

// Settings holds the data the default rules evaluate against. Zero values select the defaults.
type Settings struct {
	Rules           []RuleDescriptor
	IdentityKeys    []string
	RequiredFiles   []string
	ScriptPattern   string
	DisallowedTypes []string
	CommitMessage   string
}

func (settings Settings) withDefaults() Settings {
	resolved := settings
	if resolved.Rules == nil {
		resolved.Rules = DefaultRules()
	}
	if resolved.IdentityKeys == nil {
		resolved.IdentityKeys = DefaultIdentityKeys()
	}
	if resolved.RequiredFiles == nil {
		resolved.RequiredFiles = DefaultRequiredFiles()
	}
	if len(strings.TrimSpace(resolved.ScriptPattern)) == 0 {
		resolved.ScriptPattern = DefaultScriptPattern
	}
	if resolved.DisallowedTypes == nil {
		resolved.DisallowedTypes = DefaultDisallowedTypes()
	}
	if len(strings.TrimSpace(resolved.CommitMessage)) == 0 {
		resolved.CommitMessage = RemediationCommitMessage
	}
	return resolved
}

// Engine runs the ordered rule set against a root.
type Engine struct {
	gateway    RepositoryGateway
	classifier classify.Classifier
	fileSystem filesystem.FileSystem
	decisions  DecisionSource
	locker     gitrepo.RepositoryLocker
	logger     *zap.Logger
	settings   Settings
}

// NewEngine validates dependencies and constructs an Engine.
// Missing decision sources skip every remediation; a missing locker grants locks immediately.
func NewEngine(dependencies Dependencies, settings Settings) (*Engine, error) {
	if dependencies.Gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	if dependencies.Classifier == nil {
		return nil, ErrClassifierNotConfigured
	}
	engine := &Engine{
		gateway:    dependencies.Gateway,
		classifier: dependencies.Classifier,
		fileSystem: dependencies.FileSystem,
		decisions:  dependencies.Decisions,
		locker:     dependencies.Locker,
		logger:     dependencies.Logger,
		settings:   settings.withDefaults(),
	}
	if engine.fileSystem == nil {
		engine.fileSystem = filesystem.OSFileSystem{}
	}
	if engine.decisions == nil {
		engine.decisions = StaticDecisionSource{Decision: DecisionSkip}
	}
	if engine.locker == nil {
		engine.locker = gitrepo.NoopRepositoryLocker{}
	}
	if engine.logger == nil {
		engine.logger = zap.NewNop()
	}
	return engine, nil
}

// Evaluate runs every rule in order and returns the findings they produced.
// A rule that halts evaluation replaces all earlier findings with its own.
func (engine *Engine) Evaluate(executionContext context.Context, root string) (report Report, evaluationError error) {
	evaluation := &Evaluation{engine: engine, root: root}
	defer func() {
		if releaseError := evaluation.releaseLock(); releaseError != nil && evaluationError == nil {
			evaluationError = releaseError
		}
	}()

	for _, rule := range engine.settings.Rules {
		if contextError := executionContext.Err(); contextError != nil {
			return Report{Root: root, Findings: evaluation.snapshot()}, contextError
		}
		if ruleError := rule.Evaluate(executionContext, evaluation); ruleError != nil {
			return Report{Root: root, Findings: evaluation.snapshot()}, fmt.Errorf(ruleFailureTemplateConstant, rule.Name, ruleError)
		}
		if evaluation.halted {
			engine.logger.Debug(evaluationCompleteMessage, zap.String(logFieldRootConstant, root), zap.String(logFieldRuleConstant, rule.Name))
			break
		}
	}

	findings := evaluation.snapshot()
	engine.logger.Debug(evaluationCompleteMessage, zap.String(logFieldRootConstant, root), zap.Int(logFieldFindingCountConstant, len(findings)))
	return Report{Root: root, Findings: findings}, nil
}

// Evaluation is the state shared by the rules of one Evaluate call.
type Evaluation struct {
	engine   *Engine
	root     string
	findings []Finding
	halted   bool
	unlock   gitrepo.UnlockFunc
}

// Root returns the directory under evaluation.
func (evaluation *Evaluation) Root() string {
	return evaluation.root
}

// Emit appends a finding.
func (evaluation *Evaluation) Emit(finding Finding) {
	evaluation.findings = append(evaluation.findings, finding)
}

// Halt discards earlier findings, records finding as the only result, and stops evaluation.
func (evaluation *Evaluation) Halt(finding Finding) {
	evaluation.findings = []Finding{finding}
	evaluation.halted = true
}

func (evaluation *Evaluation) snapshot() []Finding {
	return append([]Finding{}, evaluation.findings...)
}

func (evaluation *Evaluation) ensureLocked(executionContext context.Context) error {
	if evaluation.unlock != nil {
		return nil
	}
	unlock, lockError := evaluation.engine.locker.Lock(executionContext, evaluation.root)
	if lockError != nil {
		return lockError
	}
	evaluation.unlock = unlock
	return nil
}

func (evaluation *Evaluation) releaseLock() error {
	if evaluation.unlock == nil {
		return nil
	}
	unlock := evaluation.unlock
	evaluation.unlock = nil
	return unlock()
}
