package main

import "skillsmatrix/commands"

func main() {
	commands.Execute()
}
