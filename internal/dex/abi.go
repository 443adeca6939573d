package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const angstromABIJSON = `[
  {
    "inputs": [
      {"internalType": "bytes", "name": "encoded", "type": "bytes"}
    ],
    "name": "execute",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	angstromABI     abi.ABI
	angstromABIOnce sync.Once
	angstromABIErr  error
)

// AngstromABI returns the parsed settlement entry point ABI.
func AngstromABI() (abi.ABI, error) {
	angstromABIOnce.Do(func() {
		angstromABI, angstromABIErr = abi.JSON(strings.NewReader(angstromABIJSON))
	})
	return angstromABI, angstromABIErr
}
