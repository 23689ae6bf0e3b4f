// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/fifthecho/habitat/cmd/habitat"

func main() {
	cmd.Execute()
}
