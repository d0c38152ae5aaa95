package types

import (
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex subs_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	sidOnce      sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortID returns a short, human-shareable identifier.
// Used for subscription lookup keys surfaced to support tooling.
func GenerateShortID() string {
	sidOnce.Do(initializeSID)
	id, err := sidGenerator.Generate()
	if err != nil {
		return GenerateUUID()
	}
	return id
}

// Prefixes for entity identifiers
const (
	UUID_PREFIX_ACCOUNT      = "acct"
	UUID_PREFIX_SUBSCRIPTION = "subs"
	UUID_PREFIX_PURCHASE     = "purch"
	UUID_PREFIX_PAYMENT      = "pay"
)
