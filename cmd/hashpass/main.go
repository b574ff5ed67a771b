package main

import (
	"fmt"
	"os"

	"github.com/gestaozabele/lapor/internal/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpass <password>")
		os.Exit(1)
	}

	hash, salt, err := auth.HashPassword(os.Args[1], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(auth.EncodeCredential(hash, salt))
}
