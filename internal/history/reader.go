package history

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/temirov/gitcare/internal/gitrepo"
)

const (
	shortHashLengthConstant     = 7
	openRepositoryTemplate      = "open repository %s: %w"
	notARepositoryTemplate      = "%s: %w"
	resolveHeadTemplateConstant = "resolve HEAD: %w"
	walkHistoryTemplateConstant = "walk history: %w"
)

// CommitSummary describes one commit in a history listing.
type CommitSummary struct {
	Hash    string    `yaml:"hash"`
	Author  string    `yaml:"author"`
	Email   string    `yaml:"email"`
	When    time.Time `yaml:"when"`
	Subject string    `yaml:"subject"`
}

// AuthorCount is the number of commits attributed to one author.
type AuthorCount struct {
	Author  string `yaml:"author"`
	Commits int    `yaml:"commits"`
}

// Statistics summarizes the history reachable from HEAD.
type Statistics struct {
	TotalCommits int           `yaml:"total_commits"`
	Authors      []AuthorCount `yaml:"authors"`
	FirstCommit  time.Time     `yaml:"first_commit,omitempty"`
	LastCommit   time.Time     `yaml:"last_commit,omitempty"`
}

// Reader opens repositories with go-git and walks their history.
type Reader struct{}

// NewReader constructs a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Recent returns up to limit commits reachable from HEAD, newest first. A non-positive limit returns all of them.
// An unborn branch yields no commits.
func (reader *Reader) Recent(root string, limit int) ([]CommitSummary, error) {
	summaries := []CommitSummary{}
	walkError := reader.walk(root, func(commit *object.Commit) error {
		if limit > 0 && len(summaries) >= limit {
			return storer.ErrStop
		}
		summaries = append(summaries, summarize(commit))
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}
	return summaries, nil
}

// Stats counts commits reachable from HEAD per author and records the earliest and latest author dates.
func (reader *Reader) Stats(root string) (Statistics, error) {
	statistics := Statistics{Authors: []AuthorCount{}}
	countsByAuthor := map[string]int{}
	walkError := reader.walk(root, func(commit *object.Commit) error {
		statistics.TotalCommits++
		countsByAuthor[commit.Author.Name]++
		authored := commit.Author.When
		if statistics.FirstCommit.IsZero() || authored.Before(statistics.FirstCommit) {
			statistics.FirstCommit = authored
		}
		if statistics.LastCommit.IsZero() || authored.After(statistics.LastCommit) {
			statistics.LastCommit = authored
		}
		return nil
	})
	if walkError != nil {
		return Statistics{}, walkError
	}

	for author, commits := range countsByAuthor {
		statistics.Authors = append(statistics.Authors, AuthorCount{Author: author, Commits: commits})
	}
	sort.Slice(statistics.Authors, func(left int, right int) bool {
		if statistics.Authors[left].Commits != statistics.Authors[right].Commits {
			return statistics.Authors[left].Commits > statistics.Authors[right].Commits
		}
		return statistics.Authors[left].Author < statistics.Authors[right].Author
	})
	return statistics, nil
}

func (reader *Reader) walk(root string, visit func(commit *object.Commit) error) error {
	repository, openError := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return fmt.Errorf(notARepositoryTemplate, root, gitrepo.ErrNotARepository)
		}
		return fmt.Errorf(openRepositoryTemplate, root, openError)
	}

	head, headError := repository.Head()
	if headError != nil {
		if errors.Is(headError, plumbing.ErrReferenceNotFound) {
			return nil
		}
		return fmt.Errorf(resolveHeadTemplateConstant, headError)
	}

	commits, logError := repository.Log(&git.LogOptions{From: head.Hash()})
	if logError != nil {
		return fmt.Errorf(walkHistoryTemplateConstant, logError)
	}
	defer commits.Close()

	if iterationError := commits.ForEach(visit); iterationError != nil {
		return fmt.Errorf(walkHistoryTemplateConstant, iterationError)
	}
	return nil
}

func summarize(commit *object.Commit) CommitSummary {
	hash := commit.Hash.String()
	if len(hash) > shortHashLengthConstant {
		hash = hash[:shortHashLengthConstant]
	}
	subject, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")
	return CommitSummary{
		Hash:    hash,
		Author:  commit.Author.Name,
		Email:   commit.Author.Email,
		When:    commit.Author.When,
		Subject: strings.TrimSpace(subject),
	}
}
