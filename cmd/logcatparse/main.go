// logcatparse - Android logcat threadtime parser
//
// logcatparse reassembles "logcat -v threadtime" output into records, folding
// stack traces and other continuation lines into the record they belong to,
// and reports every line it cannot parse.
package main

import (
	"os"

	"github.com/ccollicutt/logcatparse/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
