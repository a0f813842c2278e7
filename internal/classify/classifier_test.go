package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcare/internal/classify"
)

var oleHeader = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func writeSample(testInstance *testing.T, name string, content []byte) string {
	testInstance.Helper()
	samplePath := filepath.Join(testInstance.TempDir(), name)
	require.NoError(testInstance, os.WriteFile(samplePath, content, 0o644))
	return samplePath
}

func TestMimeClassifierDetectsContentTypes(testInstance *testing.T) {
	testCases := []struct {
		name             string
		fileName         string
		content          []byte
		expectedMimeType string
		matches          string
	}{
		{
			name:             "pdf",
			fileName:         "manual.bin",
			content:          []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"),
			expectedMimeType: "application/pdf",
			matches:          "application/pdf",
		},
		{
			name:             "plain_text_parameters_stripped",
			fileName:         "notes.pdf",
			content:          []byte("just some words\n"),
			expectedMimeType: "text/plain",
			matches:          "text/plain",
		},
		{
			name:     "elf_parent_chain",
			fileName: "tool",
			content:  append([]byte{0x7F, 0x45, 0x4C, 0x46, 0x02, 0x01, 0x01}, make([]byte, 64)...),
			matches:  "application/x-elf",
		},
		{
			name:     "ole_container",
			fileName: "legacy.doc",
			content:  append(append([]byte{}, oleHeader...), make([]byte, 512)...),
			matches:  "application/x-ole-storage",
		},
	}

	classifier := classify.MimeClassifier{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			classification, classifyError := classifier.Classify(writeSample(testInstance, testCase.fileName, testCase.content))
			require.NoError(testInstance, classifyError)
			if len(testCase.expectedMimeType) > 0 {
				require.Equal(testInstance, testCase.expectedMimeType, classification.MimeType)
			}
			require.True(testInstance, classification.Is(testCase.matches), classification.MimeType)
		})
	}
}

func TestMimeClassifierReportsMissingFile(testInstance *testing.T) {
	_, classifyError := classify.MimeClassifier{}.Classify(filepath.Join(testInstance.TempDir(), "absent"))
	require.Error(testInstance, classifyError)
}

func TestClassificationMatchAny(testInstance *testing.T) {
	classification := classify.NewClassification("application/pdf; charset=binary")

	matched, found := classification.MatchAny([]string{"application/msword", "application/pdf"})
	require.True(testInstance, found)
	require.Equal(testInstance, "application/pdf", matched)

	_, found = classification.MatchAny([]string{"image/png"})
	require.False(testInstance, found)
}
