package pipeline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

type MockReportGenerator struct {
	mock.Mock
}

func NewMockReportGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportGenerator {
	m := &MockReportGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReportGenerator) GenerateReport(outputPath, timestamp string, result *domain.ProcessingResult) error {
	args := m.Called(outputPath, timestamp, result)
	return args.Error(0)
}
