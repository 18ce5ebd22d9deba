package main

import "nathanbeddoewebdev/flagadmin/cmd"

func main() {
	cmd.Execute()
}
