package redis

import "fmt"

// Key prefix for all betgate data
const keyPrefix = "betgate"

// activeUsersKey returns the HASH of username -> active user JSON
func activeUsersKey(ns string) string {
	return fmt.Sprintf("%s:%s:users:active", keyPrefix, ns)
}

// blockedUsersKey returns the HASH of username -> blocked user JSON
func blockedUsersKey(ns string) string {
	return fmt.Sprintf("%s:%s:users:blocked", keyPrefix, ns)
}

// betsKey returns the LIST of bets placed by a user
func betsKey(ns, userName string) string {
	return fmt.Sprintf("%s:%s:bets:%s", keyPrefix, ns, userName)
}
