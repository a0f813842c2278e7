package policy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

// Names of the default rules.
const (
	RuleNameIdentity          = "identity"
	RuleNameRepository        = "repository"
	RuleNameRemote            = "remote"
	RuleNameRequiredFiles     = "required-files"
	RuleNameExecutableScripts = "executable-scripts"
	RuleNameDisallowedTypes   = "disallowed-types"

	gitDirectoryNameConstant               = ".git"
	ownerExecutePermissionConstant         = fs.FileMode(0o100)
	unconfiguredIdentityTemplateConstant   = "%s is not configured"
	notARepositoryTemplateConstant         = "%s is not a git repository"
	noRemoteMessageConstant                = "no remote is configured"
	missingRequiredFileTemplateConstant    = "%s is missing"
	nonExecutableScriptTemplateConstant    = "%s is not executable"
	uncommittedRemediationTemplateConstant = "%s was made executable but the change was not committed: %v"
	disallowedFileTypeTemplateConstant     = "%s has disallowed type %s"
	walkDirectorySkippedMessageConstant    = "skipping unreadable directory"
	classificationSkippedMessageConstant   = "skipping file that could not be classified"
	decisionFailedMessageConstant          = "remediation decision failed; skipping"
	logFieldPathConstant                   = "path"
)

// RuleFunc evaluates one rule, emitting findings into the evaluation.
// A returned error aborts evaluation; findings are not errors.
type RuleFunc func(executionContext context.Context, evaluation *Evaluation) error

// RuleDescriptor names a rule and the function that evaluates it.
type RuleDescriptor struct {
	Name     string
	Evaluate RuleFunc
}

// DefaultRules returns the hygiene rules in evaluation order.
func DefaultRules() []RuleDescriptor {
	return []RuleDescriptor{
		{Name: RuleNameIdentity, Evaluate: evaluateIdentitySettings},
		{Name: RuleNameRepository, Evaluate: evaluateRepositoryValidity},
		{Name: RuleNameRemote, Evaluate: evaluateRemotePresence},
		{Name: RuleNameRequiredFiles, Evaluate: evaluateRequiredFiles},
		{Name: RuleNameExecutableScripts, Evaluate: evaluateExecutableScripts},
		{Name: RuleNameDisallowedTypes, Evaluate: evaluateDisallowedTypes},
	}
}

func evaluateIdentitySettings(executionContext context.Context, evaluation *Evaluation) error {
	for _, key := range evaluation.engine.settings.IdentityKeys {
		_, configured, lookupError := evaluation.engine.gateway.ConfigValue(executionContext, evaluation.root, key)
		if lookupError != nil {
			return lookupError
		}
		if configured {
			continue
		}
		evaluation.Emit(Finding{
			Kind:     KindUnconfiguredIdentitySetting,
			Severity: SeverityAdvisory,
			Key:      key,
			Message:  fmt.Sprintf(unconfiguredIdentityTemplateConstant, key),
		})
	}
	return nil
}

func evaluateRepositoryValidity(executionContext context.Context, evaluation *Evaluation) error {
	if evaluation.engine.gateway.IsRepository(executionContext, evaluation.root) {
		return nil
	}
	evaluation.Halt(Finding{
		Kind:     KindNotARepository,
		Severity: SeverityFatal,
		Path:     evaluation.root,
		Message:  fmt.Sprintf(notARepositoryTemplateConstant, evaluation.root),
	})
	return nil
}

func evaluateRemotePresence(executionContext context.Context, evaluation *Evaluation) error {
	remotes, remotesError := evaluation.engine.gateway.Remotes(executionContext, evaluation.root)
	if remotesError != nil {
		return remotesError
	}
	if len(remotes) > 0 {
		return nil
	}
	evaluation.Emit(Finding{
		Kind:     KindNoRemoteConfigured,
		Severity: SeverityAdvisory,
		Message:  noRemoteMessageConstant,
	})
	return nil
}

func evaluateRequiredFiles(_ context.Context, evaluation *Evaluation) error {
	for _, requiredFile := range evaluation.engine.settings.RequiredFiles {
		fileInfo, statError := evaluation.engine.fileSystem.Stat(filepath.Join(evaluation.root, requiredFile))
		if statError == nil && !fileInfo.IsDir() {
			continue
		}
		evaluation.Emit(Finding{
			Kind:     KindMissingRequiredFile,
			Severity: SeverityAdvisory,
			Path:     requiredFile,
			Message:  fmt.Sprintf(missingRequiredFileTemplateConstant, requiredFile),
		})
	}
	return nil
}

func evaluateExecutableScripts(executionContext context.Context, evaluation *Evaluation) error {
	var scripts []string
	walkError := evaluation.walkRegularFiles(func(relativePath string, entry fs.DirEntry) error {
		matched, matchError := filepath.Match(evaluation.engine.settings.ScriptPattern, entry.Name())
		if matchError != nil {
			return matchError
		}
		if !matched {
			return nil
		}
		fileInfo, infoError := entry.Info()
		if infoError != nil {
			return nil
		}
		if fileInfo.Mode().Perm()&ownerExecutePermissionConstant == 0 {
			scripts = append(scripts, relativePath)
		}
		return nil
	})
	if walkError != nil {
		return walkError
	}

	for _, relativePath := range scripts {
		if remediationError := evaluation.offerScriptRemediation(executionContext, relativePath); remediationError != nil {
			return remediationError
		}
	}
	return nil
}

func (evaluation *Evaluation) offerScriptRemediation(executionContext context.Context, relativePath string) error {
	engine := evaluation.engine
	finding := Finding{
		Kind:     KindNonExecutableScript,
		Severity: SeverityAdvisory,
		Path:     relativePath,
		Message:  fmt.Sprintf(nonExecutableScriptTemplateConstant, relativePath),
	}

	decision, decisionError := engine.decisions.Decide(executionContext, finding)
	if decisionError != nil {
		if errors.Is(decisionError, context.Canceled) || errors.Is(decisionError, context.DeadlineExceeded) {
			return decisionError
		}
		engine.logger.Warn(decisionFailedMessageConstant, zap.String(logFieldPathConstant, relativePath), zap.Error(decisionError))
		decision = DecisionSkip
	}

	remediation := Remediation{Offered: true, Decision: decision}
	if decision != DecisionApply {
		finding.Remediation = remediation
		evaluation.Emit(finding)
		return nil
	}

	if lockError := evaluation.ensureLocked(executionContext); lockError != nil {
		return lockError
	}

	if chmodError := engine.gateway.SetExecutable(executionContext, evaluation.root, relativePath); chmodError != nil {
		remediation.Error = chmodError.Error()
		finding.Remediation = remediation
		evaluation.Emit(finding)
		return nil
	}

	commitError := engine.gateway.StagePath(executionContext, evaluation.root, relativePath)
	if commitError == nil {
		commitError = engine.gateway.CommitPath(executionContext, evaluation.root, engine.settings.CommitMessage, relativePath)
	}
	if commitError != nil {
		remediation.Error = commitError.Error()
		finding.Remediation = remediation
		evaluation.Emit(finding)
		evaluation.Emit(Finding{
			Kind:     KindUncommittedRemediation,
			Severity: SeverityFailure,
			Path:     relativePath,
			Message:  fmt.Sprintf(uncommittedRemediationTemplateConstant, relativePath, commitError),
		})
		return nil
	}

	remediation.Applied = true
	if branchName, branchError := engine.gateway.CurrentBranch(executionContext, evaluation.root); branchError == nil {
		remediation.Branch = branchName
	}
	finding.Remediation = remediation
	evaluation.Emit(finding)
	return nil
}

func evaluateDisallowedTypes(_ context.Context, evaluation *Evaluation) error {
	engine := evaluation.engine
	return evaluation.walkRegularFiles(func(relativePath string, _ fs.DirEntry) error {
		classification, classifyError := engine.classifier.Classify(filepath.Join(evaluation.root, filepath.FromSlash(relativePath)))
		if classifyError != nil {
			engine.logger.Warn(classificationSkippedMessageConstant, zap.String(logFieldPathConstant, relativePath), zap.Error(classifyError))
			return nil
		}
		if _, disallowed := classification.MatchAny(engine.settings.DisallowedTypes); !disallowed {
			return nil
		}
		evaluation.Emit(Finding{
			Kind:     KindDisallowedFileType,
			Severity: SeverityAdvisory,
			Path:     relativePath,
			MimeType: classification.MimeType,
			Message:  fmt.Sprintf(disallowedFileTypeTemplateConstant, relativePath, classification.MimeType),
		})
		return nil
	})
}

// walkRegularFiles visits regular files under the root in lexical order, skipping .git directories,
// symbolic links, and unreadable subdirectories. Paths are root-relative with forward slashes.
func (evaluation *Evaluation) walkRegularFiles(visit func(relativePath string, entry fs.DirEntry) error) error {
	engine := evaluation.engine
	return engine.fileSystem.WalkDir(evaluation.root, func(currentPath string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if entry != nil && entry.IsDir() && currentPath != evaluation.root {
				engine.logger.Warn(walkDirectorySkippedMessageConstant, zap.String(logFieldPathConstant, currentPath), zap.Error(walkError))
				return fs.SkipDir
			}
			return walkError
		}
		if entry.IsDir() {
			if entry.Name() == gitDirectoryNameConstant && currentPath != evaluation.root {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		relativePath, relativeError := filepath.Rel(evaluation.root, currentPath)
		if relativeError != nil {
			return relativeError
		}
		return visit(filepath.ToSlash(relativePath), entry)
	})
}
