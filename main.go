package main

import "setting-center/cmd"

func main() {
	cmd.Execute()
}
