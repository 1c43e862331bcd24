package main

import "github.com/bgbarbearia/barbershop-admin/cmd"

func main() {
	cmd.Execute()
}
