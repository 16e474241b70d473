package main

import "github.com/bodega-ag/inventory-gateway/cmd"

func main() {
	cmd.Execute()
}
