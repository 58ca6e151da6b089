package main

import "github.com/frahmantamala/hiring-gateway/cmd"

func main() {
	cmd.Execute()
}
