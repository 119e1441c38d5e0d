package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const sampleLog = `--------- beginning of main
01-15 10:00:00.000  1234  1240 I ActivityManager: Start proc
01-15 10:00:01.500  1234  1240 E AndroidRuntime: FATAL EXCEPTION: main
	at com.example.Foo.bar(Foo.java:42)
`

// execute runs sub under a minimal root carrying the persistent --config flag
// and returns what it wrote to stdout and stderr.
func execute(t *testing.T, sub *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := &cobra.Command{Use: "logcatparse", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("config", "c", "", "")
	root.AddCommand(sub)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{sub.Name()}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
