package main

import (
	"os"

	"github.com/GriffinCanCode/newtonium-installer/internal/app"
)

func main() {
	os.Exit(app.Execute())
}
