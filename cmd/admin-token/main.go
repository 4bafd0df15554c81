package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pebec/beepa-tracker/pkg/jwt"
)

// Mints a development identity token. Production tokens come from the
// identity provider; this tool exists so the API can be exercised locally
// without one.
func main() {
	privateKeyPath := flag.String("key", "./keys/private.pem", "Path to JWT private key")
	subject := flag.String("subject", "dev|admin", "Identity subject for the token")
	email := flag.String("email", "admin@pebec.gov.ng", "Email for the token")
	name := flag.String("name", "Dev Admin", "Display name for the token")
	issuer := flag.String("issuer", "auth.pebec.gov.ng", "JWT issuer")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	// Create JWT service with just the private key
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: *privateKeyPath,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nMake sure you have generated keys with: make keys-generate\n")
		os.Exit(1)
	}

	claims := jwt.Claims{
		Subject: *subject,
		Email:   *email,
		Name:    *name,
	}

	token, err := jwtService.Sign(claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"subject":      *subject,
			"email":        *email,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
		fmt.Println("Development Token Generated")
		fmt.Println("===========================")
		fmt.Printf("Subject:  %s\n", *subject)
		fmt.Printf("Email:    %s\n", *email)
		fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/auth/me\n", token[:50]+"...")
	}
}
