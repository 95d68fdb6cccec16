package main

import "github.com/user/aisec-dash/cmd"

func main() {
	cmd.Execute()
}
