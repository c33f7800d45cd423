package main

import (
	"github.com/foomo/topbar/cmd"
)

func main() {
	cmd.Execute()
}
