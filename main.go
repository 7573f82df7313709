package main

import "github.com/shiroyk/jsrt/cmd"

func main() {
	cmd.Execute()
}
