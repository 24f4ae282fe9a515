package main

import "github.com/OpenTraceLab/tiledoc/cmd/tiledoc/cmd"

func main() {
	cmd.Execute()
}
