package output

import (
	"github.com/ccollicutt/logcatparse/pkg/logcat"
)

// createTestResults yields, in order: orphan error, banner, two records and a
// malformed header error.
func createTestResults() []logcat.Result {
	return logcat.ParseLines([]string{
		"stray",
		"--------- beginning of main",
		"01-15 10:00:00.000  1234  1240 I ActivityManager: Start proc",
		"01-15 10:00:01.500  1234  1240 E AndroidRuntime: FATAL EXCEPTION: main",
		"\tat com.example.Foo.bar(Foo.java:42)",
		"01-15 10:00:02.000 abc 1240 W Tag: broken",
	}, logcat.WithBanners(true))
}
