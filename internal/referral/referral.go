// Package referral builds and parses the start-payload tokens that credit operators.
package referral

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/scout/internal/application"
)

// Prefix tags a referral token.
const Prefix = "ref_"

// Resolve extracts the referring operator from a raw start payload.
// Anything that is not "ref_" followed by a canonical decimal id resolves to application.NoReferrer.
func Resolve(payload string) int64 {
	rest, ok := strings.CutPrefix(strings.TrimSpace(payload), Prefix)
	if !ok || rest == "" || rest[0] == '0' {
		return application.NoReferrer
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return application.NoReferrer
		}
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return application.NoReferrer
	}
	return id
}

// Token encodes an operator identity as a start payload.
func Token(operatorID int64) string {
	return Prefix + strconv.FormatInt(operatorID, 10)
}

// Link is the deep link an operator shares to credit applicants to themselves.
func Link(botUsername string, operatorID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", strings.TrimPrefix(botUsername, "@"), Token(operatorID))
}
