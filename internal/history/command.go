package history

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/temirov/gitcare/internal/ui"
	"github.com/temirov/gitcare/internal/utils"
)

const (
	logCommandUseConstant         = "log"
	logCommandShortDescription    = "Show recent commits on the checked-out branch"
	statsCommandUseConstant       = "stats"
	statsCommandShortDescription  = "Summarize commit history by author"
	limitFlagNameConstant         = "limit"
	limitFlagDescriptionConstant  = "Maximum number of commits to show (0 shows all)"
	formatFlagNameConstant        = "format"
	formatFlagDescriptionConstant = "Output format: text or yaml"
	hashColorConstant             = "3"
	dateLayoutConstant            = "2006-01-02"
	commitLineTemplateConstant    = "%s %s (%s, %s)\n"
	noCommitsMessageConstant      = "No commits yet\n"
	totalCommitsTemplateConstant  = "Commits: %d\n"
	firstCommitTemplateConstant   = "First commit: %s\n"
	lastCommitTemplateConstant    = "Last commit: %s\n"
	authorsHeaderConstant         = "Authors:\n"
	authorLineTemplateConstant    = "  %*d %s\n"
)

// CommitReader reads commit history for a repository root.
type CommitReader interface {
	Recent(root string, limit int) ([]CommitSummary, error)
	Stats(root string) (Statistics, error)
}

// LogCommandBuilder assembles the log command.
type LogCommandBuilder struct {
	Reader                CommitReader
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the log command.
func (builder *LogCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          logCommandUseConstant,
		Short:        logCommandShortDescription,
		Args:         cobra.NoArgs,
		RunE:         builder.run,
		SilenceUsage: true,
	}
	command.Flags().Int(limitFlagNameConstant, DefaultLogLimit, limitFlagDescriptionConstant)
	command.Flags().String(formatFlagNameConstant, OutputFormatText, formatFlagDescriptionConstant)
	return command, nil
}

func (builder *LogCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}
	if command.Flags().Changed(limitFlagNameConstant) {
		limit, flagError := command.Flags().GetInt(limitFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		configuration.Limit = limit
		configuration = configuration.Sanitize()
	}
	format, formatError := command.Flags().GetString(formatFlagNameConstant)
	if formatError != nil {
		return formatError
	}

	root, rootError := utils.NewCommandContextAccessor().RepositoryRootOrWorkingDirectory(command.Context())
	if rootError != nil {
		return rootError
	}
	commits, readError := resolveReader(builder.Reader).Recent(root, configuration.Limit)
	if readError != nil {
		return readError
	}

	if normalizeFormat(format) == OutputFormatYAML {
		return ui.WriteYAML(command.OutOrStdout(), commits)
	}
	return writeCommits(command.OutOrStdout(), commits)
}

// StatsCommandBuilder assembles the stats command.
type StatsCommandBuilder struct {
	Reader CommitReader
}

// Build constructs the stats command.
func (builder *StatsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          statsCommandUseConstant,
		Short:        statsCommandShortDescription,
		Args:         cobra.NoArgs,
		RunE:         builder.run,
		SilenceUsage: true,
	}
	command.Flags().String(formatFlagNameConstant, OutputFormatText, formatFlagDescriptionConstant)
	return command, nil
}

func (builder *StatsCommandBuilder) run(command *cobra.Command, _ []string) error {
	format, formatError := command.Flags().GetString(formatFlagNameConstant)
	if formatError != nil {
		return formatError
	}
	root, rootError := utils.NewCommandContextAccessor().RepositoryRootOrWorkingDirectory(command.Context())
	if rootError != nil {
		return rootError
	}
	statistics, readError := resolveReader(builder.Reader).Stats(root)
	if readError != nil {
		return readError
	}

	if normalizeFormat(format) == OutputFormatYAML {
		return ui.WriteYAML(command.OutOrStdout(), statistics)
	}
	return writeStatistics(command.OutOrStdout(), statistics)
}

func resolveReader(reader CommitReader) CommitReader {
	if reader != nil {
		return reader
	}
	return NewReader()
}

func writeCommits(writer io.Writer, commits []CommitSummary) error {
	if len(commits) == 0 {
		_, writeError := io.WriteString(writer, noCommitsMessageConstant)
		return writeError
	}
	hashStyle := lipgloss.NewRenderer(writer).NewStyle().Foreground(lipgloss.Color(hashColorConstant))
	for _, commit := range commits {
		if _, writeError := fmt.Fprintf(writer, commitLineTemplateConstant, hashStyle.Render(commit.Hash), commit.Subject, commit.Author, commit.When.Format(dateLayoutConstant)); writeError != nil {
			return writeError
		}
	}
	return nil
}

func writeStatistics(writer io.Writer, statistics Statistics) error {
	if statistics.TotalCommits == 0 {
		_, writeError := io.WriteString(writer, noCommitsMessageConstant)
		return writeError
	}
	countWidth := len(fmt.Sprint(statistics.TotalCommits))
	if _, writeError := fmt.Fprintf(writer, totalCommitsTemplateConstant, statistics.TotalCommits); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(writer, firstCommitTemplateConstant, statistics.FirstCommit.Format(dateLayoutConstant)); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(writer, lastCommitTemplateConstant, statistics.LastCommit.Format(dateLayoutConstant)); writeError != nil {
		return writeError
	}
	if _, writeError := io.WriteString(writer, authorsHeaderConstant); writeError != nil {
		return writeError
	}
	for _, author := range statistics.Authors {
		if _, writeError := fmt.Fprintf(writer, authorLineTemplateConstant, countWidth, author.Commits, author.Author); writeError != nil {
			return writeError
		}
	}
	return nil
}
