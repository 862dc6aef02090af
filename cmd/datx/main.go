// Command datx inspects instrument measurement files and exports processed
// height maps.
package main

import "github.com/robert-malhotra/go-datx/cmd/datx/cmd"

func main() {
	cmd.Execute()
}
