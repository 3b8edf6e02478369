package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"
)

const (
	referencePrefix    = "RX_"
	referenceSuffixLen = 9
	base36             = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ReferencePattern matches every reference this service generates.
var ReferencePattern = regexp.MustCompile(`^RX_\d+_[0-9a-z]{9}$`)

// ReferenceGenerator mints payment references of the form
// RX_<unix millis>_<9 random base36 chars>.
type ReferenceGenerator struct {
	now  func() time.Time
	rand io.Reader
}

func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{now: time.Now, rand: rand.Reader}
}

func (g *ReferenceGenerator) Next() (string, error) {
	suffix := make([]byte, 0, referenceSuffixLen)
	buf := make([]byte, 16)
	for len(suffix) < referenceSuffixLen {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("generate payment reference: %w", err)
		}
		for _, v := range buf {
			// 252 is the largest multiple of 36 below 256; rejecting above it keeps the draw uniform
			if v >= 252 || len(suffix) == referenceSuffixLen {
				continue
			}
			suffix = append(suffix, base36[v%36])
		}
	}
	return referencePrefix + strconv.FormatInt(g.now().UnixMilli(), 10) + "_" + string(suffix), nil
}
