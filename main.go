package main

import (
	"os"

	"github.com/granodigital/report-annotate/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
