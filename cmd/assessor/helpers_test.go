package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeConfig writes an offline config using a file cache under dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	content := fmt.Sprintf(`llm:
  offline: true
assessment:
  limits:
    OrientationStyle: {questions: 1, max_points: 5}
    Interest: {questions: 1, max_points: 5}
    Personality: {questions: 1, max_points: 5}
    Aptitude: {questions: 1, max_points: 5}
    EmotionalQuotient: {questions: 1, max_points: 5}
cache:
  driver: file
  path: %s
log:
  level: error
`, filepath.Join(dir, "session"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCLI executes the root command in-process with fresh flag values.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	configPath = ""
	verbose = false
	takeFresh = false
	servePort = 0
	scoreQuestionsFile = ""
	scoreAnswersFile = ""
	scoreOutputFile = ""
}

// profileInput answers every profile prompt in order.
const profileInput = "Ada Lovelace\nada@example.com\n\nUniversity\nMathematics\n36\nmathematics, writing\nengines, poetry\n"

// answerInput picks the first option of n questions.
func answerInput(n int) string {
	return strings.Repeat("1\n", n)
}
