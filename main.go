package main

import "github.com/selimozcann/urlrisk/cmd"

func main() {
	cmd.Execute()
}
