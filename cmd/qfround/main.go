package main

import (
	"fmt"
	"os"

	"github.com/iotaledger/qfunding/app"
)

func main() {
	if err := app.New("qfround", os.Stdout).Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "qfround: %s\n", err)
		os.Exit(1)
	}
}
