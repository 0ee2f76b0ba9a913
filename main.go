package main

import "github.com/hdlscript/hdlscript/cmd"

func main() {
	cmd.Execute()
}
