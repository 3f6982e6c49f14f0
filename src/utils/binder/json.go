package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin/binding"
)

var ErrEmptyBody = errors.New("empty request body")

// Strict JSON binding: unknown fields are rejected and numbers keep their precision
var JSON = jsonBinding{}

type jsonBinding struct{}

func (jsonBinding) Name() string {
	return "json"
}

func (self jsonBinding) Bind(req *http.Request, obj interface{}) error {
	if req == nil || req.Body == nil {
		return ErrEmptyBody
	}
	return decode(req.Body, obj)
}

func (self jsonBinding) BindBody(body []byte, obj interface{}) error {
	return decode(bytes.NewReader(body), obj)
}

func decode(r io.Reader, obj interface{}) error {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	decoder.DisallowUnknownFields()
	err := decoder.Decode(obj)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}
