package classify

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const mediaTypeParameterSeparatorConstant = ";"

// Classifier detects the content type of a file.
type Classifier interface {
	Classify(path string) (Classification, error)
}

// Classification describes the detected content type of one file.
type Classification struct {
	MimeType string
	lineage  []*mimetype.MIME
}

// NewClassification builds a classification for a bare MIME type with no known ancestry.
func NewClassification(mimeType string) Classification {
	return Classification{MimeType: bareMediaType(mimeType)}
}

// Is reports whether the classification or any of its ancestors matches expected, aliases included.
func (classification Classification) Is(expected string) bool {
	if classification.MimeType == expected {
		return true
	}
	for _, ancestor := range classification.lineage {
		if ancestor.Is(expected) {
			return true
		}
	}
	return false
}

// MatchAny returns the first candidate the classification matches.
func (classification Classification) MatchAny(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if classification.Is(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// MimeClassifier sniffs file headers with github.com/gabriel-vasile/mimetype.
type MimeClassifier struct{}

// Classify reads the file header and returns the detected type with its parent chain.
func (MimeClassifier) Classify(path string) (Classification, error) {
	detected, detectionError := mimetype.DetectFile(path)
	if detectionError != nil {
		return Classification{}, detectionError
	}

	lineage := make([]*mimetype.MIME, 0, 4)
	for current := detected; current != nil; current = current.Parent() {
		lineage = append(lineage, current)
	}
	return Classification{MimeType: bareMediaType(detected.String()), lineage: lineage}, nil
}

func bareMediaType(mediaType string) string {
	bare, _, _ := strings.Cut(mediaType, mediaTypeParameterSeparatorConstant)
	return strings.TrimSpace(bare)
}
