// Command spooky is the UMI shell entrypoint: a line-oriented text protocol
// over stdin/stdout (spec §6.1), replacing the teacher's cmd/infer
// interactive chess REPL with the non-interactive engine-shell shape a
// tournament manager or GUI drives.
package main

import (
	"os"

	"github.com/Matir03/minions/protocol"
)

func main() {
	shell := protocol.NewShell(os.Stdin, os.Stdout)
	os.Exit(shell.Run())
}
