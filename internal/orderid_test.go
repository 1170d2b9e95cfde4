package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMintOrderId(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 987654321, time.UTC)

	assert.Equal(t, "2025010203040501M0000001", MintOrderId("01", "M0000001", now))
	// gateway runs carry no payment way
	assert.Equal(t, "20250102030405M0000001", MintOrderId("", "M0000001", now))
}

func TestMintOrderIdDistinguishesMachines(t *testing.T) {
	now := time.Now()

	same := MintOrderId("01", "M0000001", now)
	assert.Equal(t, same, MintOrderId("01", "M0000001", now))
	assert.NotEqual(t, same, MintOrderId("02", "M0000001", now))
	assert.NotEqual(t, same, MintOrderId("01", "M0000002", now))
}
