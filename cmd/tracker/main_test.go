package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
)

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer

	printStatistics(&buf, domain.Statistics{
		Timestamp:    "2024-03-01 11:00:00",
		Brand:        "Acme",
		TotalActive:  5,
		NewAds:       2,
		MultiVersion: 1,
		Disappeared:  3,
		Reappeared:   1,
	})

	assert.Equal(t, "2024-03-01 11:00:00\tAcme\tactive=5 new=2 multi=1 disappeared=3 reappeared=1\n", buf.String())
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	tokenRole = "owner"
	t.Cleanup(func() { tokenRole = "admin" })

	err := runToken(tokenCommand, []string{"ops"})
	assert.ErrorContains(t, err, "unknown role")
}
