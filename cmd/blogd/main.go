package main

import "github.com/MrKrzychu46/Blog-Backend/cmd/blogd/commands"

func main() {
	commands.Execute()
}
