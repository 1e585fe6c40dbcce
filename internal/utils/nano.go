package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 12
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NanoID returns a lowercase id suitable as a show id.
func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size <= 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}
