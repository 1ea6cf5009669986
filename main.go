package main

import (
	"log"

	"github.com/screenrank/screenrank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
