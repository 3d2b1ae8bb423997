package main

import "github.com/JimBoonie/gridcrop/cmd"

func main() {
	cmd.Execute()
}
