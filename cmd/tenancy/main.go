package main

import "github.com/aussiebroadwan/tenancy/cmd/tenancy/cmd"

func main() {
	cmd.Execute()
}
