package main

import "github.com/c14220110/kasirung-backend/cmd"

func main() {
	cmd.Execute()
}
