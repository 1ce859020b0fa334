package main

import "github.com/example/hotel-reservations/cmd"

func main() {
	cmd.Execute()
}
