package main

import "review-platform/cmd"

func main() {
	cmd.Execute()
}
