// Command testhost runs the demo interactive host on the terminal.
//
// Usage:
//
//	testhost [flags]
//
// Commands are invoked by typing /name; anything else is fed to the host as
// an input line. Useful as a target for prompter scripts:
//
//	prompter -script demo.yaml -- testhost -quiet
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"prompter/testhost"
)

func main() {
	quiet := flag.Bool("quiet", false, "suppress the banner")
	flag.Parse()

	h := testhost.New()

	if !*quiet {
		fmt.Println("Prompter Test Host")
		fmt.Println("==================")
		fmt.Println("Commands:")
		fmt.Println("  /greet   - Say hello")
		fmt.Println("  /echo    - Echo the last input line")
		fmt.Println("  /bell    - Ring the bell")
		fmt.Println("  /fail    - Always fails")
		fmt.Println("  /quit    - Exit")
		fmt.Println()
	}

	printed := 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "/"); ok {
			if name == "quit" {
				return
			}
			if err := h.Dispatch(name); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		} else if err := h.Inject(line + "\r"); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		for _, out := range h.OutputLines()[printed:] {
			fmt.Println(out)
			printed++
		}
	}
}
