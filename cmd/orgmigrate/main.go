package main

import "github.com/dbsmedya/orgmigrate/cmd/orgmigrate/cmd"

func main() {
	cmd.Execute()
}
