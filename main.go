package main

import "gigflow.com/gigflow/cmd"

func main() {
	cmd.Execute()
}
