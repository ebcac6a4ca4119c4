// Command hash-generator prints bcrypt hashes for the given passwords, for
// seeding accounts directly in the database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hash-generator [-cost N] password...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	hasher := auth.NewBcryptHasher(*cost)
	failed := false
	for _, password := range flag.Args() {
		if n := len(password); n < domain.MinPasswordLength || n > domain.MaxPasswordLength {
			fmt.Fprintf(os.Stderr, "skipping password of length %d: must be %d to %d bytes\n",
				n, domain.MinPasswordLength, domain.MaxPasswordLength)
			failed = true
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error generating hash: %v\n", err)
			failed = true
			continue
		}
		fmt.Println(hash)
	}
	if failed {
		os.Exit(1)
	}
}
