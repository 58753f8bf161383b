package main

import "github.com/gaurav-prasanna/brokercsv/cmd"

func main() {
	cmd.Execute()
}
