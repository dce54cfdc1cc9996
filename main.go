package main

import "github.com/strucsense/modal-assessment/cmd"

func main() {
	cmd.Execute()
}
