package main

import (
	"fmt"
	"os"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
