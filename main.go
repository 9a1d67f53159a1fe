package main

import "github.com/KaramelBytes/insights-cli/cmd"

func main() {
	cmd.Execute()
}
