package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// readClientBody decodes a JSON object or a form body into a loosely typed
// map for the validator. JSON numbers are kept as json.Number so integer
// checks see the literal the caller sent. An empty body yields an empty map.
func readClientBody(c *gin.Context) (map[string]any, error) {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return readFormBody(c)
	default:
		return readJSONBody(c)
	}
}

func readJSONBody(c *gin.Context) (map[string]any, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, errInvalidBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errInvalidBody
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errInvalidBody
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func readFormBody(c *gin.Context) (map[string]any, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var err error
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		err = c.Request.ParseMultipartForm(maxBodyBytes)
	} else {
		err = c.Request.ParseForm()
	}
	if err != nil {
		return nil, errInvalidBody
	}

	raw := make(map[string]any, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}
