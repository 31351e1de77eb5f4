// cmd/main.go
package main

import cmd "github.com/mwiater/spmvsweep/cmd/spmvsweep"

// main starts the spmvsweep CLI by delegating to the cobra root command
// defined in the spmvsweep package.
func main() {
	cmd.Execute()
}
