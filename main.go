package main

import "github.com/yeremiapane/table-reservation/cmd"

func main() {
	cmd.Execute()
}
