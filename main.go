package main

import "github.com/apandji/pandjico4/cmd"

func main() {
	cmd.Execute()
}
