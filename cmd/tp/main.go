package main

import "taskify/cmd/tp/root"

func main() {
	root.Execute()
}
