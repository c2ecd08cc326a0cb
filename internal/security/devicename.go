package security

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating default device names
var adjectives = []string{
	"amber", "brave", "bright", "calm", "cheerful", "clever", "cosmic", "eager",
	"gentle", "golden", "happy", "jolly", "kindly", "lively", "lucky", "merry",
	"noble", "perky", "quick", "quiet", "royal", "snappy", "steady", "sunny",
	"swift", "tidy", "trusty", "velvet", "vivid", "zippy",
}

var nouns = []string{
	"bear", "bell", "comet", "dolphin", "eagle", "ember", "falcon", "fern",
	"harbor", "hawk", "lantern", "maple", "meadow", "otter", "panda", "pebble",
	"pine", "raven", "river", "robin", "sparrow", "spruce", "star", "stone",
	"tiger", "willow", "wren", "breeze", "cloud", "brook",
}

// GenerateDeviceName produces a default "adjective-noun" name for devices
// registered without one.
func GenerateDeviceName() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	return adjective + "-" + noun, nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
