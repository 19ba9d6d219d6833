// Package sequence generates human-facing transaction codes.
package sequence

import (
	"errors"
	"fmt"
	"os"

	"github.com/sony/sonyflake"
)

// transactionCodePrefix marks codes as package transaction codes on paper
// documents and in downstream systems.
const transactionCodePrefix = "PT"

// SonyflakeCodeGenerator generates unique transaction codes from sonyflake IDs.
// Codes are sortable by generation time and unique across instances.
type SonyflakeCodeGenerator struct {
	idWorker *sonyflake.Sonyflake
}

// NewSonyflakeCodeGenerator creates a code generator with default sonyflake
// settings. sonyflake derives its machine id from the private IP address and
// returns a nil worker when none is available (common in containers); in that
// case the lower 16 bits of the process id are used instead.
func NewSonyflakeCodeGenerator() (*SonyflakeCodeGenerator, error) {
	idWorker := sonyflake.NewSonyflake(sonyflake.Settings{})
	if idWorker == nil {
		idWorker = sonyflake.NewSonyflake(sonyflake.Settings{
			MachineID: func() (uint16, error) { return uint16(os.Getpid()), nil },
		})
	}
	if idWorker == nil {
		return nil, errors.New("failed to initialize the sonyflake id worker")
	}

	return &SonyflakeCodeGenerator{idWorker: idWorker}, nil
}

// Next returns the next transaction code.
func (g *SonyflakeCodeGenerator) Next() (string, error) {
	id, err := g.idWorker.NextID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", transactionCodePrefix, id), nil
}
