package msp

import "fmt"

type checksumError struct {
	Got, Want byte
}

func (e *checksumError) Error() string {
	return fmt.Sprintf("msp: checksum mismatch: got 0x%02x, want 0x%02x", e.Got, e.Want)
}

func errChecksum(got, want byte) error {
	return &checksumError{Got: got, Want: want}
}
