package main

import "github.com/jsphweid/musicbin/cmd"

func main() {
	cmd.Execute()
}
