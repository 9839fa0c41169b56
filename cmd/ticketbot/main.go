package main

import (
	"log"

	"github.com/storedesk/ticketbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
