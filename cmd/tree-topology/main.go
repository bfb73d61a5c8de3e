package main

import (
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/cmd/tree-topology/cmd"
)

func main() {
	cmd.Execute()
}
