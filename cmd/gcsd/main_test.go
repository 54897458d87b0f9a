package main

import (
	"testing"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/config"
)

func TestBuildDialerRejectsUnknownTransport(t *testing.T) {
	_, err := buildDialer(config.LinkConfig{Transport: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected an error for an unknown transport")
	}
}

func TestBuildDialerAcceptsKnownTransports(t *testing.T) {
	for _, transport := range []string{"serial", "tcp", "udp"} {
		lc := config.Default().Link
		lc.Transport = transport
		if _, err := buildDialer(lc); err != nil {
			t.Errorf("transport %q: unexpected error: %v", transport, err)
		}
	}
}
