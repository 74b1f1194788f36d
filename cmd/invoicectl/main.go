package main

import "invoice-generator/cmd/invoicectl/commands"

func main() {
	commands.Execute()
}
