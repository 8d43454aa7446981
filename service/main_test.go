package service

import (
	"os"
	"testing"

	"croupier/config"
)

func TestMain(m *testing.M) {
	// Set up test config once for all tests
	config.SetTestConfig(config.NewTestConfig())

	os.Exit(m.Run())
}
