// hashpass prints the bcrypt hash of an admin password, to be stored in the
// users table.
//
//	echo -n 'secret' | go run ./cmd/hashpass
//	go run ./cmd/hashpass -password 'secret'
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/pkg"
)

func main() {
	password := flag.String("password", "", "password to hash, read from stdin when empty")
	cost := flag.Int("cost", pkg.DefaultPasswordHashCost, "bcrypt cost")
	flag.Parse()

	plain := *password
	if plain == "" {
		var err error
		plain, err = readPassword(os.Stdin)
		if err != nil {
			log.Fatalf("read password: %s", err)
		}
	}

	hash, err := hashPassword(plain, *cost)
	if err != nil {
		log.Fatalf("hash password: %s", err)
	}

	fmt.Println(hash)
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func hashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty password")
	}
	return pkg.HashPassword(plain, cost)
}
