package base

import (
	"fmt"

	"github.com/pkg/errors"
)

// BlockType classifies why a call was denied. Only BlockTypeFlow is
// produced by this module today; the others are reserved so a
// BlockError raised here composes with block types other slots (system
// load shedding, circuit breaking, ...) might add outside this core.
type BlockType uint8

const (
	BlockTypeUnknown BlockType = iota
	BlockTypeFlow
	BlockTypePairing
)

func (t BlockType) String() string {
	switch t {
	case BlockTypeFlow:
		return "Flow"
	case BlockTypePairing:
		return "Pairing"
	default:
		return "Unknown"
	}
}

// BlockError is raised when a flow rule denies a call. It carries the
// offending rule so callers can log or branch on which rule fired.
type BlockError struct {
	blockType BlockType
	rule      fmt.Stringer
	message   string
}

func NewBlockError(blockType BlockType, rule fmt.Stringer, message string) *BlockError {
	return &BlockError{blockType: blockType, rule: rule, message: message}
}

func (e *BlockError) BlockType() BlockType { return e.blockType }
func (e *BlockError) Rule() fmt.Stringer   { return e.rule }

func (e *BlockError) Error() string {
	if e.rule == nil {
		return fmt.Sprintf("sentinel: blocked by %s: %s", e.blockType, e.message)
	}
	return fmt.Sprintf("sentinel: blocked by %s rule %s: %s", e.blockType, e.rule, e.message)
}

// PairingError is raised when Entry.Exit is called out of LIFO order.
// By the time it is raised, the intervening entries have already been
// force-exited; this only reports that the caller's call graph was
// corrupt, it does not itself leave the library in a bad state.
type PairingError struct {
	cause error
}

func NewPairingError(resource ResourceWrapper) *PairingError {
	return &PairingError{cause: errors.Errorf("entry for resource %s exited out of order", resource)}
}

func (e *PairingError) Error() string {
	return e.cause.Error()
}

func (e *PairingError) Unwrap() error {
	return e.cause
}
