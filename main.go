package main

import "github.com/junaidrashid-git/storefront/commands"

func main() {
	commands.Execute()
}
