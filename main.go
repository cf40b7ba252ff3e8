package main

import "github.com/nvarley/querycache/cmd"

func main() {
	cmd.Execute()
}
