package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/firesidehq/driftwood/internal/ui"
	"github.com/firesidehq/driftwood/pkg/driftwood"
)

// printResults renders per-table outcomes of a bulk operation.
func printResults(results []driftwood.Result) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Println(ui.Failed(fmt.Sprintf("%s: %v", r.Table, r.Err)))
			continue
		}
		fmt.Println(ui.Done(fmt.Sprintf("%s: %s", r.Table, r.Outcome)))
	}
}

// confirm prompts the operator for a yes/no answer, defaulting to no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
