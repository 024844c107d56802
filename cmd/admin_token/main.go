package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/ridesmap/pkg"
)

// prints a new admin token with its bcrypt hash; the hash goes to RIDESMAP_ADMIN_TOKEN_HASH
func main() {
	token := flag.String("token", "", "token to hash, a random one is generated when empty")
	flag.Parse()

	if *token == "" {
		generated, err := pkg.GenerateRandomString(32)
		if err != nil {
			log.Fatalf("generate token: %s", err)
		}
		*token = generated
	}

	hash, err := pkg.HashPassword(*token)
	if err != nil {
		log.Fatalf("hash token: %s", err)
	}

	fmt.Printf("token: %s\n", *token)
	fmt.Printf("hash:  %s\n", hash)
}
