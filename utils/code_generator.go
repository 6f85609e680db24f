// file: utils/code_generator.go
package utils

import (
	"math/rand"
	"strings"
	"time"
)

const teamCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TeamCodeLength is fixed: join codes are exactly 5 uppercase letters.
const TeamCodeLength = 5

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateTeamCode returns a random 5-letter join code. Uniqueness is enforced
// by the database; callers retry on collision.
func GenerateTeamCode() string {
	var sb strings.Builder
	sb.Grow(TeamCodeLength)
	for i := 0; i < TeamCodeLength; i++ {
		sb.WriteByte(teamCodeCharset[seededRand.Intn(len(teamCodeCharset))])
	}
	return sb.String()
}
