package main

import "condi-loader/cmd"

func main() {
	cmd.Execute()
}
