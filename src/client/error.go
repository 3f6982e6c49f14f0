package client

import (
	"errors"
	"fmt"
)

var ErrFailedToParse = errors.New("failed to parse response")

// Body of a failed gateway response
type Error struct {
	Error string `json:"error"`
}

type ResponseError struct {
	Status  int
	Message string
}

func (self *ResponseError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s", self.Status, self.Message)
}
