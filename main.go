package main

import (
	"os"

	"github.com/MediCMS-Admin/MediCMS-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
