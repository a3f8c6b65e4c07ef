package main

import (
	"os"

	"github.com/Tooltu-deve/Travel-App-sub003/tripservice"
)

func main() {
	if err := tripservice.Run(); err != nil {
		os.Exit(1)
	}
}
