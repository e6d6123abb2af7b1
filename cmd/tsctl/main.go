// Command tsctl runs the timesheet engine on JSON files without a server.
//
//	tsctl --policy policy.json validate entries.json
//	tsctl --policy policy.json day entry.json
//	tsctl --policy policy.json week week.json
//	tsctl --policy policy.json period --start 2025-01-06 entries.json
//	tsctl --policy policy.json policy
//
// Input files may be "-" for stdin. Exit status is 1 when the input breaks a
// timesheet rule and 2 for malformed input.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errRulesBroken) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
