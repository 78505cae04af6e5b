package main

import "github.com/kfreiman/interviewprep/cmd"

func main() {
	cmd.Execute()
}
