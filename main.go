// SPDX-License-Identifier: MPL-2.0

package main

import cmd "srcpatch-cli/cmd/srcpatch"

func main() {
	cmd.Execute()
}
