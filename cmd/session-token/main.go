package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	jwtlib "sessionstore/internal/lib/jwt"
	"time"
)

// session-token prints a bearer token for the session-storage API, signed
// with SECRET_KEY.
func main() {
	var (
		shop  string
		admin bool
		ttl   time.Duration
	)

	flag.StringVar(&shop, "shop", "", "shop domain the token is limited to")
	flag.BoolVar(&admin, "admin", false, "issue an admin token")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		log.Fatal("env SECRET_KEY is required")
	}

	if shop == "" && !admin {
		log.Fatal("either -shop or -admin must be set")
	}

	role := "shop"
	if admin {
		role = jwtlib.RoleAdmin
	}

	token, err := jwtlib.New(ttl, secret).NewToken(shop, role)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
