package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const runIDLength = 10

// GenerateRunID returns a short id identifying one sync run in logs
func GenerateRunID() string {
	id, err := gonanoid.Generate(characters, runIDLength)
	if err != nil {
		return "unknown"
	}
	return id
}

const idLength = 12

// GenerateID returns a random identifier for stored rows
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
